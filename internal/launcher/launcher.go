// Package launcher builds the phone-call and WhatsApp links offered for a
// customer and hands them to whatever can open them.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

var (
	ErrLaunch       = errors.New("unable to open link")
	ErrInvalidPhone = errors.New("phone number has no digits")
)

// PhoneURI is the tel: link for phone, with whitespace removed.
func PhoneURI(phone string) (string, error) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, phone)
	if digits(compact) == "" {
		return "", ErrInvalidPhone
	}
	return "tel:" + compact, nil
}

// WhatsAppURI is the wa.me chat link. Only the digits of phone are kept.
func WhatsAppURI(phone string) (string, error) {
	d := digits(phone)
	if d == "" {
		return "", ErrInvalidPhone
	}
	return "https://wa.me/" + d, nil
}

type Links struct {
	Call     string `json:"call"`
	WhatsApp string `json:"whatsapp"`
}

func LinksFor(phone string) (Links, error) {
	call, err := PhoneURI(phone)
	if err != nil {
		return Links{}, err
	}
	wa, err := WhatsAppURI(phone)
	if err != nil {
		return Links{}, err
	}
	return Links{Call: call, WhatsApp: wa}, nil
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Opener opens a URI on the user's device.
type Opener interface {
	Open(ctx context.Context, uri string) error
}

type Launcher struct {
	opener Opener
}

func New(opener Opener) *Launcher {
	return &Launcher{opener: opener}
}

func (l *Launcher) Open(ctx context.Context, uri string) error {
	if err := l.opener.Open(ctx, uri); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLaunch, uri, err)
	}
	return nil
}

// LogOpener is the server-side opener: the client opens the link, so the
// request is only logged.
type LogOpener struct {
	Log *zap.Logger
}

func (o LogOpener) Open(_ context.Context, uri string) error {
	o.Log.Info("launch requested", zap.String("uri", uri))
	return nil
}
