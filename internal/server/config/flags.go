package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/gophblog/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     HTTP bind address (e.g. ":8080")
//	-d string     PostgreSQL DSN, or "memory"
//	-s string     token signing secret
//	-w int        bcrypt work factor
//	-t duration   token lifetime, 0 for no expiry
//	-o string     allowed CORS origin
//	-l int        post listing limit
//	-m string     upload backend: local or s3
//	-f string     upload directory for the local backend
//	-u string     S3 root user
//	-p string     S3 root password
//	-b string     S3 bucket name
//	-g string     S3 region
//	-e string     S3 base endpoint
//	-v string     log level
//
// os.Args is first narrowed with flagx.FilterArgs so flags owned by other
// loaders (-c, -env) do not trip the parser. Invalid values panic.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-d", "-s", "-w", "-t", "-o", "-l", "-m", "-f", "-u", "-p", "-b", "-g", "-e", "-v",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.IntVar(&config.PasswordHashCost, "w", config.PasswordHashCost, "bcrypt work factor")
	fs.DurationVar(&config.TokenTTL, "t", config.TokenTTL, "token lifetime (0 disables expiry)")
	fs.StringVar(&config.CORSOrigin, "o", config.CORSOrigin, "allowed CORS origin")
	fs.IntVar(&config.ListLimit, "l", config.ListLimit, "post listing limit")
	fs.StringVar(&config.UploadBackend, "m", config.UploadBackend, "upload backend (local|s3)")
	fs.StringVar(&config.UploadDir, "f", config.UploadDir, "upload directory")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
