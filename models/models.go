package models

// All lists every table managed by AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{}, &Topic{}, &Tag{}, &Template{}, &Question{},
		&Form{}, &Answer{}, &Comment{}, &Like{},
	}
}
