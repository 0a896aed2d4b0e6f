package models

// TranslationRecord is one completed translation. Records are written once and
// never updated.
type TranslationRecord struct {
	ID             string `gorm:"primaryKey" json:"id"`
	SourceText     string `gorm:"type:text;not null" json:"source_text"`
	TranslatedText string `gorm:"type:text;not null" json:"translated_text"`
	SourceLang     string `gorm:"not null;index:idx_source_lang" json:"source_lang"`
	TargetLang     string `gorm:"not null;index:idx_target_lang" json:"target_lang"`
	// CreatedAt is an RFC3339 UTC string with fixed-width nanoseconds, so
	// ordering by the column is chronological.
	CreatedAt string `gorm:"not null;index:idx_created_at" json:"created_at"`
}

// TableName keeps the table name used by existing history databases.
func (TranslationRecord) TableName() string {
	return "translation_history"
}
