package obs

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	})
	return &buf
}

func TestTimeLogsRequestIDAndError(t *testing.T) {
	buf := captureLog(t)
	ctx := WithRequestID(context.Background(), "abc-123")

	err := errors.New("boom")
	Time(ctx, "carrier.search")(&err)

	out := buf.String()
	assert.Contains(t, out, "req_id=abc-123")
	assert.Contains(t, out, "op=carrier.search")
	assert.Contains(t, out, "err=boom")
}

func TestTimeWithoutError(t *testing.T) {
	buf := captureLog(t)

	var err error
	Time(context.Background(), "carriers.list")(&err)

	assert.Contains(t, buf.String(), "op=carriers.list")
	assert.NotContains(t, buf.String(), "err=")
	assert.Equal(t, "", RequestID(context.Background()))
}
