package message

import "github.com/yanun0323/errors"

// Sentinel errors returned by Decode. Callers compare with errors.Is;
// the feed package maps these onto diag's wider error-kind taxonomy.
var (
	ErrMessageTruncated   = errors.New("message: body shorter than required for its type")
	ErrUnknownMessageType = errors.New("message: unrecognized type tag")
)
