package adapters

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/de-tools/cloudview-alerts/pkg/models/api"
	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
)

const resourceSeparator = ", "

// CSVHeader is the column layout of the per-account CSV report.
var CSVHeader = []string{
	"Account",
	"Control Name",
	"Number of Failed Resources",
	"Failed Resource List",
	"Remediation Information Link",
}

func MapFailureRecordToCSVRow(r domain.FailureRecord) []string {
	return []string{
		r.AccountID,
		stripNewlines(r.ControlName),
		strconv.Itoa(r.FailedResources),
		strings.Join(r.ResourceIDs, resourceSeparator),
		r.RemediationLink,
	}
}

func MapFailureRecordToAttachment(r domain.FailureRecord) api.Attachment {
	text := fmt.Sprintf(
		"Failed Control CID %s, Control Name: %s, Number of Failed Resources %d\n Failed Resources: \n %s\nRemediation: %s",
		r.ControlID,
		r.ControlName,
		r.FailedResources,
		strings.Join(r.ResourceIDs, resourceSeparator),
		r.RemediationLink,
	)
	if r.Incomplete {
		text += fmt.Sprintf("\nResource list incomplete: listing stopped after %d of %d resources", len(r.ResourceIDs), r.FailedResources)
	}
	return api.Attachment{Text: text}
}

func MapAccountReportToWebhookMessage(report *domain.AccountReport) api.WebhookMessage {
	msg := api.WebhookMessage{
		Text:        fmt.Sprintf("CloudView CSA Results for %s", report.Account.AccountID),
		Attachments: make([]api.Attachment, 0, len(report.Records)),
	}
	for _, rec := range report.Records {
		msg.Attachments = append(msg.Attachments, MapFailureRecordToAttachment(rec))
	}
	return msg
}

func stripNewlines(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}
