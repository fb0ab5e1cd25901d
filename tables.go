package storesync

// Remote table names. The parent table is keyed by StoreID; every child
// table is keyed by ID and carries StoreID as a foreign key. These names
// belong to the remote schema and must not be renamed here.
const (
	TableStores             = "Stores"
	TableOutsourcingCosts   = "OutsourcingCosts"
	TableRecruitmentMedia   = "RecruitmentMedia"
	TableOvertimeSubjects   = "OvertimeSubjects"
	TableOrganizationCharts = "OrganizationCharts"
)

// Remote column names used by this core.
const (
	ColID          = "ID"
	ColStoreID     = "StoreID"
	ColStoreName   = "StoreName"
	ColCompanyName = "CompanyName"
	ColTeamName    = "TeamName"
	ColInterviewer = "Interviewer"
)

// ChildTableOrder is the fixed order in which child tables are processed
// during the write path. Deletes must land table by table before inserts
// start, so the order has to be deterministic.
var ChildTableOrder = []string{
	TableOutsourcingCosts,
	TableRecruitmentMedia,
	TableOvertimeSubjects,
	TableOrganizationCharts,
}

// KeyColumn returns the primary-key column for a table. The remote schema
// uses ID everywhere except the Stores table, which is keyed by StoreID.
func KeyColumn(table string) string {
	if table == TableStores {
		return ColStoreID
	}
	return ColID
}

// DocumentKey returns the lower-camel-cased key under which a child table's
// record set appears in an AggregateDocument.
func DocumentKey(table string) string {
	return lowerCamel(table)
}
