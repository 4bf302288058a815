package booking

import (
	"bytes"
	"fmt"
	"text/template"

	"schedulecall/internal/models"
)

const (
	AdminSubject = "📅 New Call Scheduled"
	UserSubject  = "✅ Call Scheduled Successfully"
)

// Submitted values are interpolated verbatim; text/template does no escaping.
var (
	adminTemplate = template.Must(template.New("admin").Parse(`
<h2>New Call Booking</h2>
<p><strong>Name:</strong> {{.Req.Name}}</p>
<p><strong>Email:</strong> {{.Req.Email}}</p>
<p><strong>Date:</strong> {{.Req.Date}}</p>
<p><strong>Time:</strong> {{.Req.Time}}</p>
<p><strong>Message:</strong> {{.Req.Message}}</p>
`))

	userTemplate = template.Must(template.New("user").Parse(`
<h2>Hi {{.Req.Name}},</h2>
<p>Your call has been scheduled successfully.</p>
<p><strong>Date:</strong> {{.Req.Date}}</p>
<p><strong>Time:</strong> {{.Req.Time}}</p>
<br/>
<p>Looking forward to speaking with you.</p>
<p>— {{.Owner}}</p>
`))
)

// Composer renders the two emails of a booking.
type Composer struct {
	adminSender string
	userSender  string
	ownerName   string
}

func NewComposer(adminSender, userSender, ownerName string) *Composer {
	return &Composer{
		adminSender: adminSender,
		userSender:  userSender,
		ownerName:   ownerName,
	}
}

// AdminNotification addresses the site operator.
func (c *Composer) AdminNotification(req models.BookingRequest, adminAddress string) (models.EmailMessage, error) {
	html, err := c.render(adminTemplate, req)
	if err != nil {
		return models.EmailMessage{}, err
	}
	return models.EmailMessage{
		From:    c.adminSender,
		To:      adminAddress,
		Subject: AdminSubject,
		HTML:    html,
	}, nil
}

// UserConfirmation addresses the submitter.
func (c *Composer) UserConfirmation(req models.BookingRequest) (models.EmailMessage, error) {
	html, err := c.render(userTemplate, req)
	if err != nil {
		return models.EmailMessage{}, err
	}
	return models.EmailMessage{
		From:    c.userSender,
		To:      req.Email,
		Subject: UserSubject,
		HTML:    html,
	}, nil
}

func (c *Composer) render(tmpl *template.Template, req models.BookingRequest) (string, error) {
	data := struct {
		Req   models.BookingRequest
		Owner string
	}{Req: req, Owner: c.ownerName}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", tmpl.Name(), err)
	}
	return body.String(), nil
}
