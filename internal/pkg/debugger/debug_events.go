package debugger

import (
	"bytes"
	"encoding/json"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogDocument logs a streamed document at debug level, pretty-printed when
// it is valid JSON. It does nothing unless debug logging is enabled.
func LogDocument(logger *zap.Logger, label string, doc []byte) {
	if logger == nil || !logger.Core().Enabled(zapcore.DebugLevel) {
		return
	}

	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, doc, "", "  "); err != nil {
		logger.Debug("Debug document is not JSON",
			zap.String("label", label),
			zap.ByteString("raw", doc),
			zap.Error(err))
		return
	}
	logger.Debug("Debug document", zap.String("label", label), zap.String("json", prettyJSON.String()))
}
