package domain

import "time"

// Project groups bugs and carries the QA/developer assignment sets.
// Every id in QAAssigned must reference a user with role qa, every id in
// DevelopersAssigned a user with role developer, and DevelopersAssigned may
// be non-empty only while QAAssigned is non-empty.
type Project struct {
	ID                 string
	Name               string
	Description        string
	Picture            *ImageBlob
	CreatedBy          string
	QAAssigned         []string
	DevelopersAssigned []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasQA reports membership in the QA assignment set.
func (p *Project) HasQA(userID string) bool {
	return containsID(p.QAAssigned, userID)
}

// HasDeveloper reports membership in the developer assignment set.
func (p *Project) HasDeveloper(userID string) bool {
	return containsID(p.DevelopersAssigned, userID)
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
