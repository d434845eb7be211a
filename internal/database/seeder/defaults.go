package seeder

func Defaults() []Seeder {
	return []Seeder{
		MatchSettingsSeeder{},
		EmailTemplateSeeder{},
	}
}
