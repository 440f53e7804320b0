// Package handlers provides HTTP request handlers for the playlist API.
//
// It includes handlers for:
//   - Parsing playlist text without storing it
//   - Importing playlists from request bodies and remote URLs
//   - Browsing, searching and exporting stored playlists
//   - Listing registered directive tags
//   - Health checks and version information
package handlers
