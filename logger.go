package faceoverlay

import "github.com/muesli/faceoverlay/logger"

// Logger is the logger used by the renderer and session.
type Logger = logger.Logger
