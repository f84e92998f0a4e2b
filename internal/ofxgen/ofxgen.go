// Package ofxgen serializes the statement document tree into an OFX 2.x
// (XML) file.
package ofxgen

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"csvofx/internal/models"
)

// header is the OFX 2.x prolog emitted before the message body.
const header = `<?xml version="1.0" encoding="utf-8"?>
<?OFX OFXHEADER="200" VERSION="200" SECURITY="NONE" OLDFILEUID="NONE" NEWFILEUID="NONE"?>
`

// FI identifies the generating program in the sign-on response.
type FI struct {
	Org string `xml:"ORG"`
}

// SignOnResponse is the synthesized sign-on every file carries.
type SignOnResponse struct {
	Status   models.Status    `xml:"STATUS"`
	Server   models.Timestamp `xml:"DTSERVER"`
	Language string           `xml:"LANGUAGE"`
	FI       FI               `xml:"FI"`
}

// SignOnMessageSet wraps the sign-on response.
type SignOnMessageSet struct {
	Response SignOnResponse `xml:"SONRS"`
}

// OFX is the document root. Absent branches are omitted.
type OFX struct {
	XMLName    xml.Name                  `xml:"OFX"`
	SignOn     SignOnMessageSet          `xml:"SIGNONMSGSRSV1"`
	Bank       *models.BankMessageSet    `xml:"BANKMSGSRSV1"`
	CreditCard *models.CardMessageSet    `xml:"CREDITCARDMSGSRSV1"`
	Investment *models.InvMessageSet     `xml:"INVSTMTMSGSRSV1"`
	Securities *models.SecListMessageSet `xml:"SECLISTMSGSRSV1"`
}

// Generator renders documents. The zero value is not usable; call New.
type Generator struct {
	Org      string
	Language string
	Location *time.Location
}

// New returns a generator stamping files in the given timezone.
func New(loc *time.Location) *Generator {
	if loc == nil {
		loc = time.FixedZone("JST", 9*60*60)
	}
	return &Generator{
		Org:      "csvofx/1.0",
		Language: "JPN",
		Location: loc,
	}
}

// Exchange wraps the document branches under the OFX root with a
// synthesized sign-on stamped at now.
func (g *Generator) Exchange(doc *models.Document, now time.Time) *OFX {
	return &OFX{
		SignOn: SignOnMessageSet{
			Response: SignOnResponse{
				Status:   models.StatusOK(),
				Server:   models.NewTimestamp(now.In(g.Location)),
				Language: g.Language,
				FI:       FI{Org: g.Org},
			},
		},
		Bank:       doc.Bank,
		CreditCard: doc.CreditCard,
		Investment: doc.Investment,
		Securities: doc.Securities,
	}
}

// Render serializes the document to OFX 2.x bytes.
func (g *Generator) Render(doc *models.Document, now time.Time) ([]byte, error) {
	root := g.Exchange(doc, now)

	body, err := xml.MarshalIndent(root, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("error serializing statement: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// FileName returns the output file name for an account converted at now.
func FileName(account string, now time.Time) string {
	return "OFX_" + account + "_" + now.Format("20060102") + ".ofx"
}

// Save renders the document and writes it under dir, creating the
// directory if needed. The written path is returned.
func (g *Generator) Save(doc *models.Document, dir, account string, now time.Time) (string, error) {
	data, err := g.Render(doc, now)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating output directory: %w", err)
	}
	path := filepath.Join(dir, FileName(account, now.In(g.Location)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("error writing statement file: %w", err)
	}
	return path, nil
}
