package storesync

import "encoding/json"

// Store is the parent record of an aggregate. The columns this core depends
// on are typed; any further columns of the remote schema are carried through
// the Extra map so that schema additions survive a round trip.
type Store struct {
	StoreID     string
	StoreName   string
	CompanyName string
	TeamName    string
	Interviewer string
	Extra       map[string]any
}

// Row converts the store into its remote-table representation. Empty typed
// columns are omitted so that an Edit only touches supplied fields.
func (s *Store) Row() Row {
	row := make(Row, len(s.Extra)+5)
	for k, v := range s.Extra {
		row[k] = v
	}
	setIfNotEmpty(row, ColStoreID, s.StoreID)
	setIfNotEmpty(row, ColStoreName, s.StoreName)
	setIfNotEmpty(row, ColCompanyName, s.CompanyName)
	setIfNotEmpty(row, ColTeamName, s.TeamName)
	setIfNotEmpty(row, ColInterviewer, s.Interviewer)
	return row
}

// StoreFromRow builds a Store from a remote-table row, keeping unknown
// columns in Extra.
func StoreFromRow(row Row) *Store {
	s := &Store{}
	for k, v := range row {
		switch k {
		case ColStoreID:
			s.StoreID = stringValue(v)
		case ColStoreName:
			s.StoreName = stringValue(v)
		case ColCompanyName:
			s.CompanyName = stringValue(v)
		case ColTeamName:
			s.TeamName = stringValue(v)
		case ColInterviewer:
			s.Interviewer = stringValue(v)
		default:
			if s.Extra == nil {
				s.Extra = make(map[string]any)
			}
			s.Extra[k] = v
		}
	}
	return s
}

// MarshalJSON flattens the typed columns and the extension map into one
// object using the remote column names.
func (s *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any(s.Row()))
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (s *Store) UnmarshalJSON(data []byte) error {
	var row Row
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}
	*s = *StoreFromRow(row)
	return nil
}

// ChildRecord is one row of a child table. ID is the primary key assigned by
// the remote store; StoreID is the foreign key to the parent. All remaining
// columns live in Fields.
type ChildRecord struct {
	ID      string
	StoreID string
	Fields  map[string]any
}

// Row converts the record into its remote-table representation. An empty ID
// is omitted so that Add lets the remote store assign the key.
func (c ChildRecord) Row() Row {
	row := make(Row, len(c.Fields)+2)
	for k, v := range c.Fields {
		row[k] = v
	}
	setIfNotEmpty(row, ColID, c.ID)
	setIfNotEmpty(row, ColStoreID, c.StoreID)
	return row
}

// ChildRecordFromRow builds a ChildRecord from a remote-table row.
func ChildRecordFromRow(row Row) ChildRecord {
	c := ChildRecord{}
	for k, v := range row {
		switch k {
		case ColID:
			c.ID = stringValue(v)
		case ColStoreID:
			c.StoreID = stringValue(v)
		default:
			if c.Fields == nil {
				c.Fields = make(map[string]any)
			}
			c.Fields[k] = v
		}
	}
	return c
}

// MarshalJSON flattens key columns and Fields into one object.
func (c ChildRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any(c.Row()))
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (c *ChildRecord) UnmarshalJSON(data []byte) error {
	var row Row
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}
	*c = ChildRecordFromRow(row)
	return nil
}

func childRecordsFromRows(rows []Row) []ChildRecord {
	out := make([]ChildRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, ChildRecordFromRow(row))
	}
	return out
}

// AggregateDocument is the ephemeral composite of one store and its four
// child record sets. It is assembled per read request and consumed per write
// request; the remote store is the sole durable owner of the data.
type AggregateDocument struct {
	StoreName          string        `json:"storeName"`
	Store              *Store        `json:"store,omitempty"`
	OutsourcingCosts   []ChildRecord `json:"outsourcingCosts"`
	RecruitmentMedia   []ChildRecord `json:"recruitmentMedia"`
	OvertimeSubjects   []ChildRecord `json:"overtimeSubjects"`
	OrganizationCharts []ChildRecord `json:"organizationCharts"`
}

// NewAggregateDocument returns a document with empty, non-nil child sets so
// that a store without children still serializes every key.
func NewAggregateDocument(storeName string) *AggregateDocument {
	return &AggregateDocument{
		StoreName:          storeName,
		OutsourcingCosts:   []ChildRecord{},
		RecruitmentMedia:   []ChildRecord{},
		OvertimeSubjects:   []ChildRecord{},
		OrganizationCharts: []ChildRecord{},
	}
}

// Children returns the record set for a child table.
func (d *AggregateDocument) Children(table string) []ChildRecord {
	switch table {
	case TableOutsourcingCosts:
		return d.OutsourcingCosts
	case TableRecruitmentMedia:
		return d.RecruitmentMedia
	case TableOvertimeSubjects:
		return d.OvertimeSubjects
	case TableOrganizationCharts:
		return d.OrganizationCharts
	}
	return nil
}

// SetChildren replaces the record set for a child table.
func (d *AggregateDocument) SetChildren(table string, records []ChildRecord) {
	switch table {
	case TableOutsourcingCosts:
		d.OutsourcingCosts = records
	case TableRecruitmentMedia:
		d.RecruitmentMedia = records
	case TableOvertimeSubjects:
		d.OvertimeSubjects = records
	case TableOrganizationCharts:
		d.OrganizationCharts = records
	}
}

// StoreSummary is the UI projection of one Stores row, with column names
// translated to the form's naming convention.
type StoreSummary struct {
	StoreName   string `json:"storeName"`
	CompanyName string `json:"companyName"`
	TeamName    string `json:"teamName"`
	Interviewer string `json:"interviewer"`
}

// WriteResult is the structured outcome of a save. The write entry point
// never raises past its boundary: failures are carried here as a
// user-facing message.
type WriteResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func setIfNotEmpty(row Row, col, val string) {
	if val != "" {
		row[col] = val
	}
}
