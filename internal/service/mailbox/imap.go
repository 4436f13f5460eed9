package mailbox

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"

	domsvc "github.com/Bean0-0/tli-strategy-app/internal/domain/service"
	"github.com/Bean0-0/tli-strategy-app/pkg/logger"
)

// Config holds IMAP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	UseTLS   bool
}

// Service reads alert emails from an IMAP mailbox.
type Service struct {
	cfg Config
	log *logger.Logger
}

var _ domsvc.MailSource = (*Service)(nil)

// NewService creates a new IMAP mail source.
func NewService(cfg Config, log *logger.Logger) *Service {
	if cfg.Port == 0 {
		cfg.Port = 993
	}
	return &Service{cfg: cfg, log: log}
}

// IsConfigured reports whether the minimum connection settings are present.
func (s *Service) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != ""
}

func (s *Service) connect() (*client.Client, error) {
	if !s.IsConfigured() {
		return nil, fmt.Errorf("imap not configured")
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var (
		c   *client.Client
		err error
	)
	if s.cfg.UseTLS {
		c, err = client.DialTLS(addr, nil)
	} else {
		c, err = client.Dial(addr)
	}
	if err != nil {
		return nil, fmt.Errorf("imap connect: %w", err)
	}

	if err := c.Login(s.cfg.Username, s.cfg.Password); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("imap login: %w", err)
	}
	return c, nil
}

// FetchUnread fetches unread messages, optionally filtered by subject, up to max.
func (s *Service) FetchUnread(ctx context.Context, subjectFilter string, max int) ([]domsvc.InboundEmail, error) {
	c, err := s.connect()
	if err != nil {
		return nil, err
	}
	defer c.Logout()

	mbox, err := c.Select("INBOX", false)
	if err != nil {
		return nil, fmt.Errorf("select inbox: %w", err)
	}
	if mbox.Messages == 0 {
		return nil, nil
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}

	seqNums, err := c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("search unseen: %w", err)
	}
	if len(seqNums) == 0 {
		return nil, nil
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(seqNums...)

	messages := make(chan *imap.Message, len(seqNums))
	section := &imap.BodySectionName{}

	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqSet, []imap.FetchItem{imap.FetchEnvelope, imap.FetchFlags, section.FetchItem()}, messages)
	}()

	var emails []domsvc.InboundEmail
	for msg := range messages {
		if msg == nil {
			continue
		}

		subject := msg.Envelope.Subject
		if subjectFilter != "" && !strings.Contains(strings.ToLower(subject), strings.ToLower(subjectFilter)) {
			continue
		}
		if max > 0 && len(emails) >= max {
			continue
		}

		body, images, err := parseMessage(msg, section)
		if err != nil {
			s.log.Warn("failed to parse message", logger.Error(err), logger.Uint("seq", uint(msg.SeqNum)))
			continue
		}

		from := ""
		if len(msg.Envelope.From) > 0 {
			from = msg.Envelope.From[0].Address()
		}

		emails = append(emails, domsvc.InboundEmail{
			ID:      msg.SeqNum,
			From:    from,
			Subject: subject,
			Body:    body,
			Images:  images,
		})
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}

	return emails, nil
}

// MarkRead marks a message as seen.
func (s *Service) MarkRead(ctx context.Context, id uint32) error {
	c, err := s.connect()
	if err != nil {
		return err
	}
	defer c.Logout()

	if _, err := c.Select("INBOX", false); err != nil {
		return fmt.Errorf("select inbox: %w", err)
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(id)

	item := imap.FormatFlagsOp(imap.AddFlags, true)
	flags := []interface{}{imap.SeenFlag}

	if err := c.Store(seqSet, item, flags, nil); err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	return nil
}

// parseMessage extracts the plain-text body and any image attachments.
func parseMessage(msg *imap.Message, section *imap.BodySectionName) (string, []domsvc.ImageAttachment, error) {
	r := msg.GetBody(section)
	if r == nil {
		return "", nil, fmt.Errorf("no body section")
	}

	mr, err := mail.CreateReader(r)
	if err != nil {
		return "", nil, fmt.Errorf("create mail reader: %w", err)
	}

	var (
		body   string
		images []domsvc.ImageAttachment
	)
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", nil, fmt.Errorf("read next part: %w", err)
		}

		switch h := p.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			switch {
			case strings.HasPrefix(contentType, "text/plain"):
				b, err := io.ReadAll(p.Body)
				if err != nil {
					return "", nil, fmt.Errorf("read body: %w", err)
				}
				body = string(b)
			case strings.HasPrefix(contentType, "image/"):
				b, err := io.ReadAll(p.Body)
				if err != nil {
					continue
				}
				images = append(images, domsvc.ImageAttachment{MimeType: contentType, Data: b})
			}
		case *mail.AttachmentHeader:
			contentType, _, _ := h.ContentType()
			if strings.HasPrefix(contentType, "image/") {
				b, err := io.ReadAll(p.Body)
				if err != nil {
					continue
				}
				images = append(images, domsvc.ImageAttachment{MimeType: contentType, Data: b})
			}
		}
	}

	return strings.TrimSpace(body), images, nil
}
