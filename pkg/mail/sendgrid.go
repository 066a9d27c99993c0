// Copyright 2025 Propel Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mail

import (
	"fmt"
	"time"

	"github.com/go-propel/propel/pkg/log"
	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mail holds the sendgrid delivery configuration.
type Mail struct {
	Enabled  bool   `mapstructure:"enabled"`
	ApiKey   string `mapstructure:"apiKey"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"fromName"`
	// LinkBase is the public console origin used to build join links,
	// e.g. "https://console.propel.dev".
	LinkBase string `mapstructure:"linkBase"`
}

// SendGridMailer delivers workspace invite emails through sendgrid.
type SendGridMailer struct {
	conf Mail
}

func NewSendGridMailer(conf Mail) *SendGridMailer {
	return &SendGridMailer{conf: conf}
}

// SendInvite sends a single invite email. Callers treat delivery as
// best effort; the invite stays redeemable either way.
func (m *SendGridMailer) SendInvite(email, workspaceName, role, joinLink, inviterName string, expiresAt time.Time) error {
	if !m.conf.Enabled {
		log.Debugf("mail disabled, skipping invite to %s", email)
		return nil
	}
	if m.conf.ApiKey == "" {
		return errors.New("sendgrid api key is empty")
	}
	if email == "" {
		return errors.New("recipient address is empty")
	}

	subject := fmt.Sprintf("You have been invited to join %s", workspaceName)
	body := fmt.Sprintf(
		`%s invited you to join the workspace "%s" as %s.

Open the link below to accept the invite:

  %s

The invite expires on %s. If you were not expecting this email you can
safely ignore it.
`,
		inviterName, workspaceName, role, joinLink, expiresAt.Format(time.RFC1123))

	message := sgmail.NewSingleEmail(
		sgmail.NewEmail(m.conf.FromName, m.conf.From),
		subject,
		sgmail.NewEmail("", email),
		body,
		fmt.Sprintf("<pre>%s</pre>", body),
	)

	resp, err := sendgrid.NewSendClient(m.conf.ApiKey).Send(message)
	if err != nil {
		return errors.Wrap(err, "sendgrid send")
	}
	if resp.StatusCode >= 400 {
		return errors.Errorf("sendgrid send failed: status=%d body=%s", resp.StatusCode, resp.Body)
	}
	log.Infow("invite mail sent", "to", email, "workspace", workspaceName, "status", resp.StatusCode)
	return nil
}
