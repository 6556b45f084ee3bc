package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	xterm "golang.org/x/term"

	"github.com/vanpelt/catnip-tui/internal/term"
)

var attachAgent string

var attachCmd = &cobra.Command{
	Use:   "attach <session>",
	Short: "Attach the current terminal directly to a server PTY session",
	Long: `# 🔌 Attach

Attach the current terminal directly to a server PTY session, bypassing the
TUI. Output streams raw to the terminal; input is forwarded while this client
holds write access.

Press **Ctrl+Q** to detach.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runAttach(cfg.ServerURL, args[0], attachAgent)
	},
}

func init() {
	attachCmd.Flags().StringVar(&attachAgent, "agent", "", "agent to launch in the session (e.g. claude)")
	rootCmd.AddCommand(attachCmd)
}

// stdoutScreen streams terminal bytes straight through, no local emulation.
type stdoutScreen struct{}

func (stdoutScreen) Write(data []byte)     { _, _ = os.Stdout.Write(data) }
func (stdoutScreen) Resize(cols, rows int) {}

func runAttach(baseURL, session, agent string) error {
	fd := int(os.Stdin.Fd())
	if !xterm.IsTerminal(fd) {
		return fmt.Errorf("attach requires a terminal")
	}

	cols, rows, err := xterm.GetSize(fd)
	if err != nil {
		return fmt.Errorf("reading terminal size: %w", err)
	}

	oldState, err := xterm.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	defer func() {
		_ = xterm.Restore(fd, oldState)
	}()

	done := make(chan error, 1)

	conn := term.NewConn(stdoutScreen{}, term.Hooks{
		OnReadOnly: func(readOnly bool) {
			if readOnly {
				fmt.Fprintf(os.Stderr, "\r\n[read-only: another client holds the keyboard]\r\n")
			} else {
				fmt.Fprintf(os.Stderr, "\r\n[write access granted]\r\n")
			}
		},
		OnShake: func() {
			// Bell on rejected input
			_, _ = os.Stdout.Write([]byte{7})
		},
		OnError: func(title, message string) {
			fmt.Fprintf(os.Stderr, "\r\n[%s] %s\r\n", title, message)
		},
		OnDisconnect: func(err error) {
			done <- err
		},
	})

	transport, err := term.DialSession(baseURL, session, agent)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", session, err)
	}
	defer conn.Close()

	conn.AttachTransport(transport)
	conn.MarkEmulatorReady(cols, rows)
	go transport.ReadLoop(conn)

	// Track window size changes
	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	defer signal.Stop(winch)
	go func() {
		for range winch {
			if c, r, err := xterm.GetSize(fd); err == nil {
				conn.SetSize(c, r)
			}
		}
	}()

	// Forward stdin until Ctrl+Q or disconnect
	go func() {
		buf := make([]byte, 1024)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				done <- err
				return
			}
			for i := 0; i < n; i++ {
				if buf[i] == 0x11 { // Ctrl+Q
					done <- nil
					return
				}
			}
			if n > 0 {
				if err := conn.SendInput(buf[:n]); err != nil {
					done <- err
					return
				}
			}
		}
	}()

	err = <-done
	if err != nil {
		return fmt.Errorf("session ended: %w", err)
	}
	return nil
}
