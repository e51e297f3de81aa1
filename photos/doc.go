// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package photos implements the upload pipeline for travel photos.
//
// Each upload is checked (image media type, size), decoded, written as a JPEG
// that fits inside 1920x1080 and as a 300x300 center-cropped thumbnail named
// "thumb-<filename>", and only then recorded in the database. If the row
// cannot be written the files are removed again.
//
// Files are laid out under the configured upload directory:
//
//	<upload>/photos/<unix-ms>-<uuid>.jpg
//	<upload>/thumbnails/thumb-<unix-ms>-<uuid>.jpg
package photos
