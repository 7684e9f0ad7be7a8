package notify

import "strings"

const envelopeHeader = `<html>
  <body style="font-family: Arial; background:#f9f9f9; padding:20px">
    <div style="max-width:600px;margin:auto;background:white;padding:30px;border-radius:12px">
      <h2>SkyDesk360</h2>
      <hr>`

const envelopeFooter = `<hr>
      <p style="font-size:10px;color:#aaa;text-align:center">This is an automated message</p>
    </div>
  </body>
</html>`

// RenderEnvelope wraps an HTML fragment in the branded email layout.
// body is inserted verbatim; callers escape any user supplied values.
func RenderEnvelope(body string) string {
	var b strings.Builder
	b.Grow(len(envelopeHeader) + len(body) + len(envelopeFooter))
	b.WriteString(envelopeHeader)
	b.WriteString(body)
	b.WriteString(envelopeFooter)
	return b.String()
}
