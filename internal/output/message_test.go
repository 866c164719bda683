package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureStatus(t *testing.T) (out, errOut *bytes.Buffer) {
	t.Helper()

	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	origOut, origErr := stdout, stderr
	stdout, stderr = out, errOut
	t.Cleanup(func() { stdout, stderr = origOut, origErr })
	return out, errOut
}

func TestStatusLines(t *testing.T) {
	tests := []struct {
		name    string
		print   func()
		want    string
		wantErr bool
	}{
		{"info", func() { Info("syncing") }, "ℹ️  syncing\n", false},
		{"infof", func() { Infof("height %d", 42) }, "ℹ️  height 42\n", false},
		{"warn", func() { Warn("low disk") }, "⚠️  low disk\n", true},
		{"success", func() { Successf("done in %s", "2s") }, "✅ done in 2s\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut := captureStatus(t)
			tt.print()

			got, quiet := out, errOut
			if tt.wantErr {
				got, quiet = errOut, out
			}
			assert.Equal(t, tt.want, got.String())
			assert.Empty(t, quiet.String())
		})
	}
}
