package adapters

import (
	"strings"

	"github.com/de-tools/cloudview-alerts/pkg/models/api"
	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
)

func MapApiControlToDomain(c api.Control) domain.Control {
	return domain.Control{
		ID:              string(c.ControlID),
		Name:            c.ControlName,
		FailedResources: c.FailedResources,
	}
}

func MapApiResourceToDomain(r api.Resource) domain.Resource {
	return domain.Resource{
		ID:     string(r.ResourceID),
		Result: domain.ResourceResult(strings.ToUpper(strings.TrimSpace(r.Result))),
	}
}
