package mcp

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

const maxMessageSize = 4 << 20

// ServeStdio reads newline-delimited JSON-RPC messages from r and writes one
// response line per request to w. It returns nil when r reaches EOF and
// ctx.Err() when ctx is cancelled first.
func (s *Server) ServeStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	lines := make(chan []byte)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	bw := bufio.NewWriter(w)
	s.logger.Info("serving MCP over stdio")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("read stdin: %w", err)
					}
				default:
				}
				s.logger.Info("stdin closed; stopping MCP server")
				return nil
			}
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}

			out := s.HandleMessage(ctx, line)
			if out == nil {
				continue
			}
			if _, err := bw.Write(append(out, '\n')); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
			if err := bw.Flush(); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
		}
	}
}
