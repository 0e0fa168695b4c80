package models

func ModelsToAutoMigrate() []interface{} {
	return []interface{}{
		&Revision{},
		&Package{},
		&TermsAcceptance{},
	}
}
