package cli

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonBlockingReader_ReadLine(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "answer", input: "yes\n", want: "yes"},
		{name: "padded amount", input: "   12.50 \n", want: "12.50"},
		{name: "windows line ending", input: "coffee\r\n", want: "coffee"},
		{name: "blank line", input: "\n", want: ""},
		{name: "last line without newline", input: "alice", want: "alice"},
		{name: "nothing left", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewNonBlockingReader(strings.NewReader(tt.input)).ReadLine(context.Background())
			if tt.wantErr {
				assert.ErrorIs(t, err, io.EOF)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNonBlockingReader_Cancellation(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{
			name: "already cancelled",
			ctx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx, cancel
			},
		},
		{
			name: "deadline while waiting",
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 30*time.Millisecond)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Nothing is ever written, so only the context can end the read.
			pr, pw := io.Pipe()
			t.Cleanup(func() {
				_ = pw.Close()
				_ = pr.Close()
			})

			ctx, cancel := tt.ctx()
			defer cancel()

			_, err := NewNonBlockingReader(pr).ReadLine(ctx)
			assert.ErrorIs(t, err, ErrInputCancelled)
		})
	}
}

func TestNonBlockingReader_SequentialAnswers(t *testing.T) {
	r := NewNonBlockingReader(strings.NewReader("alice\ns3cret\ny\n"))
	ctx := context.Background()

	for _, want := range []string{"alice", "s3cret", "y"} {
		got, err := r.ReadLine(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestNewNonBlockingReader_NilPanics(t *testing.T) {
	assert.Panics(t, func() { NewNonBlockingReader(nil) })
}
