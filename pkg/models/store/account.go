package store

// AccountRow is a roster row as read from the record source.
type AccountRow struct {
	Line      int
	Cloud     string
	AccountID string
	BU        string
	WebHook   string
}

// Roster column names.
const (
	ColumnCloud     = "cloud"
	ColumnAccountID = "accountId"
	ColumnBU        = "BU"
	ColumnWebHook   = "webHook"
)

var RequiredColumns = []string{ColumnCloud, ColumnAccountID, ColumnBU, ColumnWebHook}
