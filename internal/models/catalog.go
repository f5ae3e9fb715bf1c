// internal/models/catalog.go
package models

type Genre struct {
	BaseModel
	Name string `json:"name" gorm:"size:100;not null"`
	Slug string `json:"slug" gorm:"size:100;not null;uniqueIndex"`
}

func (g *Genre) String() string { return g.Name }

func (g *Genre) TypeName() string { return "Genre" }

func (g *Genre) FieldValue(field string) (string, bool) {
	return nameSlugField(g.Name, g.Slug, field)
}

type LicenseType struct {
	BaseModel
	Name           string `json:"name" gorm:"size:100;not null"`
	Description    string `json:"description" gorm:"type:text"`
	FileType       string `json:"file_type" gorm:"size:100"`
	NumberOfCopies string `json:"number_of_copies" gorm:"size:255"`
	Slug           string `json:"slug" gorm:"size:100;not null;uniqueIndex"`
}

func (l *LicenseType) String() string { return l.Name }

func (l *LicenseType) TypeName() string { return "LicenseType" }

func (l *LicenseType) FieldValue(field string) (string, bool) {
	return nameSlugField(l.Name, l.Slug, field)
}

type Beatmaker struct {
	BaseModel
	Name  string `json:"name" gorm:"size:100;not null"`
	Slug  string `json:"slug" gorm:"size:100;not null;uniqueIndex"`
	Image string `json:"image,omitempty" gorm:"size:512"`

	// Relationships
	Beats []Beat `json:"beats,omitempty" gorm:"foreignKey:BeatmakerID;constraint:OnDelete:CASCADE"`
}

func (b *Beatmaker) String() string { return b.Name }

func (b *Beatmaker) TypeName() string { return "Beatmaker" }

func (b *Beatmaker) FieldValue(field string) (string, bool) {
	return nameSlugField(b.Name, b.Slug, field)
}

func (b *Beatmaker) SetImage(path string) { b.Image = path }

func nameSlugField(name, slug, field string) (string, bool) {
	switch field {
	case "slug":
		return slug, slug != ""
	case "name":
		return name, name != ""
	}
	return "", false
}
