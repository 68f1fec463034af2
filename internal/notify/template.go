package notify

import (
	"bytes"
	"html/template"
)

var invitationTmpl = template.Must(template.New("invitation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>You're invited to an interview</h2>
  <p>Hi {{if .CandidateName}}{{.CandidateName}}{{else}}there{{end}},</p>
  <p>You have been invited to complete <strong>{{.InterviewTitle}}</strong>{{if .JobRole}} for the {{.JobRole}} role{{end}}.</p>
  {{if .TotalTime}}<p>The interview lasts {{.TotalTime}} minutes once you begin.</p>{{end}}
  <p><a href="{{.Link}}" style="background:#2563eb;color:#fff;padding:10px 18px;text-decoration:none;border-radius:4px;">Start interview</a></p>
  <p>This invitation expires on {{.ExpiresAt.Format "Jan 2, 2006 15:04 MST"}}.</p>
  <p style="font-size:12px;color:#888;">If the button does not work, paste this link into your browser:<br>{{.Link}}</p>
</body>
</html>
`))

func renderInvitation(mail InvitationMail) (string, error) {
	var buf bytes.Buffer
	if err := invitationTmpl.Execute(&buf, mail); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func invitationSubject(mail InvitationMail) string {
	return "Interview invitation: " + mail.InterviewTitle
}
