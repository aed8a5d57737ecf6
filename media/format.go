// Package media models the image formats the resolution pipeline can serve
// and the heuristics for recognizing them from content types and file names.
package media

import (
	"mime"
	"path"
	"strings"
)

// Format is an enumerated media format. Unknown is a valid terminal value: a
// resource whose format cannot be determined is still servable, the caller
// just gets no content-type hint.
type Format int

const (
	Unknown Format = iota
	BMP
	GIF
	JP2
	JPG
	PDF
	PNG
	TIF
	WEBP
)

var formatNames = map[Format]string{
	Unknown: "unknown",
	BMP:     "bmp",
	GIF:     "gif",
	JP2:     "jp2",
	JPG:     "jpg",
	PDF:     "pdf",
	PNG:     "png",
	TIF:     "tif",
	WEBP:    "webp",
}

var formatMediaTypes = map[Format]string{
	BMP:  "image/bmp",
	GIF:  "image/gif",
	JP2:  "image/jp2",
	JPG:  "image/jpeg",
	PDF:  "application/pdf",
	PNG:  "image/png",
	TIF:  "image/tiff",
	WEBP: "image/webp",
}

var byMediaType = map[string]Format{
	"image/bmp":       BMP,
	"image/x-ms-bmp":  BMP,
	"image/gif":       GIF,
	"image/jp2":       JP2,
	"image/jpeg":      JPG,
	"application/pdf": PDF,
	"image/png":       PNG,
	"image/tiff":      TIF,
	"image/webp":      WEBP,
}

var byExtension = map[string]Format{
	"bmp":  BMP,
	"gif":  GIF,
	"jp2":  JP2,
	"j2k":  JP2,
	"jpg":  JPG,
	"jpeg": JPG,
	"pdf":  PDF,
	"png":  PNG,
	"tif":  TIF,
	"tiff": TIF,
	"webp": WEBP,
}

var formatExtensions = map[Format][]string{
	BMP:  {"bmp"},
	GIF:  {"gif"},
	JP2:  {"jp2", "j2k"},
	JPG:  {"jpg", "jpeg"},
	PDF:  {"pdf"},
	PNG:  {"png"},
	TIF:  {"tif", "tiff"},
	WEBP: {"webp"},
}

// String returns the format's short name.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// MediaType returns the format's preferred media type, or "" for Unknown.
func (f Format) MediaType() string {
	return formatMediaTypes[f]
}

// Extensions returns the file extensions recognized for the format, preferred
// first, or nil for Unknown.
func (f Format) Extensions() []string {
	return formatExtensions[f]
}

// FromMediaType maps a content-type header value to a Format. Parameters such
// as charset are ignored. Absent or unparseable values, and media types not in
// the supported set, map to Unknown.
func FromMediaType(contentType string) Format {
	if contentType == "" {
		return Unknown
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return Unknown
	}
	return byMediaType[strings.ToLower(mediaType)]
}

// Infer guesses a Format from the extension-like suffix of a name. The name
// may be an identifier or a storage key; only the portion after the final dot
// of the final path segment is considered.
func Infer(name string) Format {
	ext := strings.TrimPrefix(path.Ext(name), ".")
	if ext == "" {
		return Unknown
	}
	return byExtension[strings.ToLower(ext)]
}
