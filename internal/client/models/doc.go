// Package models defines the data the GophBlog CLI exchanges with the server.
package models
