package pointcloud

import "errors"

// Error kinds. Errors returned by this package wrap one of these, test with errors.Is.
var (
	ErrUsage  = errors.New("usage error")
	ErrParse  = errors.New("parse error")
	ErrIO     = errors.New("I/O error")
	ErrRaster = errors.New("raster error")
)
