package models

// Tag labels recipes. Names are not unique per user.
type Tag struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	Name   string `gorm:"size:255;not null" json:"name"`
	UserID uint   `gorm:"not null;index" json:"-"`
}

func (t *Tag) GetID() uint          { return t.ID }
func (t *Tag) SetOwner(userID uint) { t.UserID = userID }
func (t *Tag) SetName(name string)  { t.Name = name }

// Ingredient is something a recipe is made from.
type Ingredient struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	Name   string `gorm:"size:255;not null" json:"name"`
	UserID uint   `gorm:"not null;index" json:"-"`
}

func (i *Ingredient) GetID() uint          { return i.ID }
func (i *Ingredient) SetOwner(userID uint) { i.UserID = userID }
func (i *Ingredient) SetName(name string)  { i.Name = name }
