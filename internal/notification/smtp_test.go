package notification_test

import (
	"context"
	"net"
	"net/textproto"
	"strconv"
	"strings"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/alxtravel/travel-booking/internal/notification"
)

// smtpServer accepts connections on a loopback port. A silent server never
// sends the greeting; otherwise it speaks just enough SMTP to take one message.
type smtpServer struct {
	listener net.Listener
	silent   bool

	mu    sync.Mutex
	conns []net.Conn
	data  []string
}

func startSMTPServer(silent bool) *smtpServer {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())
	s := &smtpServer{listener: l, silent: silent}
	go s.serve()
	DeferCleanup(s.close)
	return s
}

func (s *smtpServer) config() notification.SMTPConfig {
	addr := s.listener.Addr().(*net.TCPAddr)
	return notification.SMTPConfig{Host: "127.0.0.1", Port: addr.Port}
}

func (s *smtpServer) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.mu.Unlock()
		if !s.silent {
			go s.converse(conn)
		}
	}
}

func (s *smtpServer) converse(conn net.Conn) {
	tp := textproto.NewConn(conn)
	defer tp.Close()

	_ = tp.PrintfLine("220 localhost ESMTP")
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		switch verb := strings.ToUpper(strings.Fields(line + " x")[0]); verb {
		case "EHLO":
			_ = tp.PrintfLine("250-localhost")
			_ = tp.PrintfLine("250 8BITMIME")
		case "DATA":
			_ = tp.PrintfLine("354 go ahead")
			lines, err := tp.ReadDotLines()
			if err != nil {
				return
			}
			s.mu.Lock()
			s.data = append(s.data, strings.Join(lines, "\n"))
			s.mu.Unlock()
			_ = tp.PrintfLine("250 queued")
		case "QUIT":
			_ = tp.PrintfLine("221 bye")
			return
		default:
			_ = tp.PrintfLine("250 OK")
		}
	}
}

func (s *smtpServer) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.data...)
}

func (s *smtpServer) close() {
	_ = s.listener.Close()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		_ = c.Close()
	}
}

var _ = Describe("SMTPMailer", func() {
	msg := notification.Message{
		From:    "hello@kingsleyusa.dev",
		To:      []string{"guest@example.com"},
		Subject: "Payment Confirmation",
		Body:    "Your payment was successful.",
	}

	sendAsync := func(ctx context.Context, mailer *notification.SMTPMailer) chan error {
		done := make(chan error, 1)
		go func() {
			done <- mailer.Send(ctx, msg)
		}()
		return done
	}

	It("should deliver the message over one session", func() {
		server := startSMTPServer(false)

		err := notification.NewSMTPMailer(server.config()).Send(context.Background(), msg)

		Expect(err).NotTo(HaveOccurred())
		Expect(server.messages()).To(HaveLen(1))
		Expect(server.messages()[0]).To(ContainSubstring("Subject: Payment Confirmation"))
		Expect(server.messages()[0]).To(ContainSubstring("Your payment was successful."))
	})

	It("should give up on a server that never greets once the context deadline passes", func() {
		server := startSMTPServer(true)
		ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
		defer cancel()

		done := sendAsync(ctx, notification.NewSMTPMailer(server.config()))

		var err error
		Eventually(done, 3*time.Second).Should(Receive(&err))
		Expect(err).To(MatchError(context.DeadlineExceeded))
	})

	It("should apply the configured timeout when the context has none", func() {
		server := startSMTPServer(true)
		cfg := server.config()
		cfg.Timeout = 300 * time.Millisecond

		done := sendAsync(context.Background(), notification.NewSMTPMailer(cfg))

		var err error
		Eventually(done, 3*time.Second).Should(Receive(&err))
		Expect(err).To(MatchError(context.DeadlineExceeded))
	})

	It("should return when the context is canceled mid-session", func() {
		server := startSMTPServer(true)
		ctx, cancel := context.WithCancel(context.Background())

		done := sendAsync(ctx, notification.NewSMTPMailer(server.config()))
		Consistently(done, 200*time.Millisecond).ShouldNot(Receive())
		cancel()

		var err error
		Eventually(done, 3*time.Second).Should(Receive(&err))
		Expect(err).To(MatchError(context.Canceled))
	})

	It("should fail fast when nothing listens", func() {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		port := l.Addr().(*net.TCPAddr).Port
		Expect(l.Close()).To(Succeed())

		err = notification.NewSMTPMailer(notification.SMTPConfig{Host: "127.0.0.1", Port: port}).
			Send(context.Background(), msg)

		Expect(err).To(MatchError(ContainSubstring("smtp send to guest@example.com")))
		Expect(err.Error()).To(ContainSubstring(strconv.Itoa(port)))
	})
})
