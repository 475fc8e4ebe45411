package detect

var byExtension = map[string]string{
	// images
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"ico":  "image/x-icon",
	"svg":  "image/svg+xml",
	"avif": "image/avif",
	"heic": "image/heic",

	// audio
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"ogg":  "audio/ogg",
	"oga":  "audio/ogg",
	"opus": "audio/opus",
	"flac": "audio/flac",
	"m4a":  "audio/mp4",
	"aac":  "audio/aac",

	// video
	"mp4":  "video/mp4",
	"m4v":  "video/mp4",
	"webm": "video/webm",
	"mov":  "video/quicktime",
	"mkv":  "video/x-matroska",
	"avi":  "video/x-msvideo",
	"3gp":  "video/3gpp",

	// documents
	"pdf":  "application/pdf",
	"txt":  "text/plain",
	"text": "text/plain",
	"csv":  "text/csv",
	"md":   "text/markdown",
	"html": "text/html",
	"htm":  "text/html",
	"css":  "text/css",
	"xml":  "application/xml",
	"json": "application/json",
	"js":   "text/javascript",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"epub": "application/epub+zip",

	// archives
	"zip": "application/zip",
	"gz":  "application/gzip",
	"tar": "application/x-tar",
	"7z":  "application/x-7z-compressed",
	"rar": "application/vnd.rar",

	"bin": "application/octet-stream",
}

var preferredExtension = map[string]string{
	"image/jpeg":       "jpg",
	"image/png":        "png",
	"image/gif":        "gif",
	"image/webp":       "webp",
	"image/tiff":       "tif",
	"audio/mpeg":       "mp3",
	"audio/wav":        "wav",
	"audio/ogg":        "ogg",
	"video/mp4":        "mp4",
	"video/webm":       "webm",
	"video/quicktime":  "mov",
	"application/pdf":  "pdf",
	"text/plain":       "txt",
	"application/json": "json",
	"application/zip":  "zip",
}
