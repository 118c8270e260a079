package book

import "github.com/yanun0323/errors"

// Sentinel errors returned by Book's mutating operations. None of these
// are fatal: the caller reports them to a diagnostics sink and moves on
// to the next message.
var (
	ErrDuplicateOrderID = errors.New("book: order id already resting")
	ErrUnknownOrderID    = errors.New("book: order id not found")
	ErrOverExecute       = errors.New("book: execution volume exceeds resting volume")
	ErrLevelMissing      = errors.New("book: order index referenced a level that does not exist")
)
