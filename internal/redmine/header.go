package redmine

// Column names of the minimal layout, in order.
var minimalHeader = []string{
	"Subject", "Description", "Assigned To", "Fixed version", "Author",
	"Category", "Priority", "Tracker", "Status", "Start date", "Due date",
	"Done Ratio", "Estimated hours", "Watchers",
}

// Relation columns are declared for the importer but never filled.
var relationColumns = []string{
	"blocked by", "blocks", "duplicated by", "duplicates", "follows",
	"precedes", "related to", "Parent Issue", "Id",
}

// Column positions shared by both layouts.
const (
	ColSubject = iota
	ColDescription
	ColAssignedTo
	ColFixedVersion
	ColAuthor
	ColCategory
	ColPriority
	ColTracker
	ColStatus
	ColStartDate
	ColDueDate
	ColDoneRatio
	ColEstimatedHours
	ColWatchers
)

// Header returns the column names for the selected layout: 14 columns, or 23
// when relation columns are included.
func Header(includeRelations bool) []string {
	h := make([]string, 0, len(minimalHeader)+len(relationColumns))
	h = append(h, minimalHeader...)
	if includeRelations {
		h = append(h, relationColumns...)
	}
	return h
}

// IsRelationColumn reports whether the column at index i of the relations
// layout is one of the reserved relation columns.
func IsRelationColumn(i int) bool {
	return i >= len(minimalHeader) && i < len(minimalHeader)+len(relationColumns)
}
