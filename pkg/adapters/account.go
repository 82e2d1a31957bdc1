package adapters

import (
	"strings"

	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
	"github.com/de-tools/cloudview-alerts/pkg/models/store"
)

func MapStoreAccountRowToDomain(row store.AccountRow) domain.Account {
	return domain.Account{
		Cloud:     strings.TrimSpace(row.Cloud),
		AccountID: strings.TrimSpace(row.AccountID),
		BU:        strings.TrimSpace(row.BU),
		Webhook:   strings.TrimSpace(row.WebHook),
	}
}
