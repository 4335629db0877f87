package ioutils

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrNoClipboard is returned when no clipboard utility is available
// (for example xclip/xsel/wl-copy on Linux).
var ErrNoClipboard = errors.New("clipboard not available")

// CopyToClipboard places text on the system clipboard.
func CopyToClipboard(text string) error {
	if clipboard.Unsupported {
		return ErrNoClipboard
	}
	return clipboard.WriteAll(text)
}
