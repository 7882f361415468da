package extract

import (
	"context"
	"errors"
	"unicode/utf8"
)

// plainText decodes a text upload, tolerating a UTF-8 BOM.
type plainText struct{}

func (plainText) Name() string { return "plain_text" }

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func (plainText) Extract(ctx context.Context, data []byte) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if len(data) >= 3 && data[0] == utf8BOM[0] && data[1] == utf8BOM[1] && data[2] == utf8BOM[2] {
		data = data[3:]
	}
	if !utf8.Valid(data) {
		return Result{}, errors.New("file is not valid UTF-8 text")
	}
	return Result{Text: string(data)}, nil
}
