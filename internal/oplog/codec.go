package oplog

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Shared coders. EncodeAll and DecodeAll are safe for concurrent use.
var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	decoder, _ = zstd.NewReader(nil)
)

func compress(body []byte) []byte {
	return encoder.EncodeAll(body, make([]byte, 0, len(body)))
}

func decompress(blob []byte) ([]byte, error) {
	out, err := decoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing: %w", err)
	}
	return out, nil
}
