// Package mail — доставка бланка заказа по SMTP (gomail).
package mail

import (
	"context"
	"errors"
	"io"
	"net/textproto"
	"strings"
	"time"

	"github.com/Gunvolt24/farm_orders/internal/domain"
	"github.com/Gunvolt24/farm_orders/internal/ports"
	"gopkg.in/gomail.v2"
)

// Проверка, что SMTPGateway удовлетворяет интерфейсу DeliveryGateway.
var _ ports.DeliveryGateway = (*SMTPGateway)(nil)

// Сообщения для пользователя.
const (
	MsgNoConfig    = "Configuration e-mail absente: vérifiez l'adresse et la passkey de l'expéditeur."
	MsgNoReceiver  = "Adresse destinataire manquante."
	MsgAuthFailed  = "Échec d'authentification SMTP. Vérifiez l'adresse et la passkey de l'expéditeur."
	MsgSendFailed  = "Échec d'envoi de l'e-mail. Vérifiez la connectivité réseau et la configuration SMTP."
	msgSentPrefix  = "E-mail envoyé à "
	defaultSubject = "Commande Champ du Puits"
	defaultBody    = "Commande générée depuis l'application."
)

// Sender — отправка собранных писем (gomail.Dialer или подмена в тестах).
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Config — параметры SMTP.
type Config struct {
	Host    string
	Port    int
	Address string // адрес отправителя (он же логин)
	Passkey string
	Timeout time.Duration
}

// SMTPGateway — DeliveryGateway поверх gomail.
type SMTPGateway struct {
	cfg    Config
	sender Sender
	log    ports.Logger
}

// NewSMTPGateway — конструктор; порт 465 — неявный TLS (SMTPS).
func NewSMTPGateway(cfg Config, log ports.Logger) *SMTPGateway {
	return NewSMTPGatewayWithSender(cfg, gomail.NewDialer(cfg.Host, cfg.Port, cfg.Address, cfg.Passkey), log)
}

// NewSMTPGatewayWithSender — конструктор с внешним Sender.
func NewSMTPGatewayWithSender(cfg Config, sender Sender, log ports.Logger) *SMTPGateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &SMTPGateway{cfg: cfg, sender: sender, log: log}
}

// Configured — заданы ли адрес и passkey отправителя.
func (g *SMTPGateway) Configured() bool {
	return strings.TrimSpace(g.cfg.Address) != "" && strings.TrimSpace(g.cfg.Passkey) != ""
}

// SenderAddress — адрес отправителя.
func (g *SMTPGateway) SenderAddress() string { return strings.TrimSpace(g.cfg.Address) }

// Send — синхронная отправка с ограничением по времени. Ошибки возвращаются значением.
func (g *SMTPGateway) Send(ctx context.Context, m ports.Mail) ports.DeliveryResult {
	if !g.Configured() {
		return ports.DeliveryResult{OK: false, Message: MsgNoConfig}
	}
	receiver := strings.TrimSpace(m.Receiver)
	if receiver == "" {
		return ports.DeliveryResult{OK: false, Message: MsgNoReceiver}
	}

	msg := g.build(receiver, m)

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- g.sender.DialAndSend(msg) }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if err != nil {
		if g.log != nil {
			g.log.Errorf(ctx, "smtp send to %s failed: %v", receiver, err)
		}
		if isAuthError(err) {
			return ports.DeliveryResult{OK: false, Message: MsgAuthFailed}
		}
		return ports.DeliveryResult{OK: false, Message: MsgSendFailed}
	}
	return ports.DeliveryResult{OK: true, Message: msgSentPrefix + receiver + "."}
}

func (g *SMTPGateway) build(receiver string, m ports.Mail) *gomail.Message {
	subject := strings.TrimSpace(m.Subject)
	if subject == "" {
		subject = defaultSubject
	}
	body := strings.TrimSpace(m.Body)
	if body == "" {
		body = defaultBody
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", g.SenderAddress())
	msg.SetHeader("To", receiver)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if len(m.Attachment) > 0 {
		name := m.AttachmentName
		if name == "" {
			name = "commande.pdf"
		}
		data := m.Attachment
		msg.Attach(name,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {domain.MediaTypePDF}}),
		)
	}
	return msg
}

// isAuthError — отказ сервера в аутентификации (530/534/535).
func isAuthError(err error) bool {
	var tpErr *textproto.Error
	if !errors.As(err, &tpErr) {
		return false
	}
	switch tpErr.Code {
	case 530, 534, 535:
		return true
	}
	return false
}
