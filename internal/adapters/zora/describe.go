package zora

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"

	"zoracoin/pkg/errors"
)

// Describe renders an SDK failure as one line of user-facing text.
// JSON-RPC errors contribute their code and revert data when present.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		msg = fmt.Sprintf("%s (rpc http status %d)", msg, httpErr.StatusCode)
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		msg = fmt.Sprintf("%s (rpc code %d)", msg, rpcErr.ErrorCode())
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data := dataErr.ErrorData(); data != nil {
			msg = fmt.Sprintf("%s (data: %v)", msg, data)
		}
	}

	return strings.ToValidUTF8(msg, "�")
}
