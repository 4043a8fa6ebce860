// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

package email

import (
	"fmt"
	"html/template"
	"strings"
)

// Mail subjects are stable strings the client support team greps for.
const (
	SubjectConfirmRegistration = "Complete Your Registration"
	SubjectPasswordReset       = "Reset Your Password"
)

var confirmTemplate = template.Must(template.New("confirm").Parse(`
<h1>Welcome to Rooftop!</h1>
<p>Thank you for pre-registering. To complete your registration, please click on the link below:</p>
<a href="{{.Link}}">Complete Registration</a>
<p>If you didn't request this, please ignore this email.</p>
`))

var resetTemplate = template.Must(template.New("reset").Parse(`
<h1>Password Reset Requested</h1>
<p>To choose a new password, please click on the link below:</p>
<a href="{{.Link}}">Reset Your Password</a>
<p>This link expires in one hour. If you didn't request this, please ignore this email.</p>
`))

var inquiryTemplate = template.Must(template.New("inquiry").Parse(`
<h2>New message about your ad: {{.AdTitle}}</h2>
<p><strong>From:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Phone:</strong> {{.Phone}}</p>
<h3>Message:</h3>
<p>{{.Body}}</p>
`))

type linkData struct {
	Link string
}

// InquiryData carries the buyer's contact details forwarded to an ad owner.
type InquiryData struct {
	AdTitle string
	Name    string
	Email   string
	Phone   string
	Body    string
}

// NewConfirmationMessage builds the registration confirmation mail.
// The token rides in the query string of a client-side route.
func NewConfirmationMessage(to, clientURL, token string) (Message, error) {
	link := fmt.Sprintf("%s/confirm-registration?token=%s", strings.TrimRight(clientURL, "/"), token)
	body, err := render(confirmTemplate, linkData{Link: link})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: SubjectConfirmRegistration, HTMLBody: body}, nil
}

// NewPasswordResetMessage builds the password reset mail.
func NewPasswordResetMessage(to, clientURL, token string) (Message, error) {
	link := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(clientURL, "/"), token)
	body, err := render(resetTemplate, linkData{Link: link})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: SubjectPasswordReset, HTMLBody: body}, nil
}

// NewInquiryMessage builds the mail forwarded to an ad owner when a buyer
// submits the contact form. Template escaping neutralizes any HTML in the
// buyer-supplied fields.
func NewInquiryMessage(to string, data InquiryData) (Message, error) {
	body, err := render(inquiryTemplate, data)
	if err != nil {
		return Message{}, err
	}
	subject := fmt.Sprintf("New inquiry about your ad: %s", data.AdTitle)
	return Message{To: to, Subject: subject, HTMLBody: body}, nil
}

func render(tpl *template.Template, data any) (string, error) {
	builder := &strings.Builder{}
	if err := tpl.Execute(builder, data); err != nil {
		return "", fmt.Errorf("email: template render failed: %w", err)
	}
	return builder.String(), nil
}
