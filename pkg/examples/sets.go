package examples

func teamExamples() []ExampleSet {
	return []ExampleSet{
		{
			Name:        "Product Team",
			Description: "A small product team with a mix of complete and sparse profiles",
			Members: []ExampleMember{
				{
					FirstName: "Ada",
					LastName:  "Okafor",
					Email:     "ada.okafor@example.com",
					Phone:     "+44 20 7946 0018",
					Bio:       "Engineering lead. Owns the release train and the on-call rota.",
				},
				{
					FirstName:   "Mateo",
					LastName:    "Ruiz",
					DisplayName: "Teo",
					Email:       "mateo.ruiz@example.com",
					Bio:         "Designer. Prefers sketches over slides.",
				},
				{
					FirstName: "Priya",
					LastName:  "Natarajan",
					Email:     "priya.n@example.com",
					Phone:     "+1 (555) 010-4477",
				},
				{
					FirstName: "Jonas",
					Email:     "jonas@example.com",
				},
			},
		},
	}
}

func communityExamples() []ExampleSet {
	return []ExampleSet{
		{
			Name:        "Garden Club",
			Description: "Volunteers of a neighborhood garden club, with longer bios to scroll",
			Members: []ExampleMember{
				{
					FirstName: "Margit",
					LastName:  "Halvorsen",
					Email:     "margit.h@example.org",
					Phone:     "+47 22 12 34 56",
					Bio: "Keeps bees at the north plot and runs the spring seed swap. " +
						"Ask her about overwintering hives, the club tool shed key, " +
						"or why the compost bins are numbered the way they are.",
				},
				{
					FirstName:   "Samuel",
					LastName:    "Adeyemi",
					DisplayName: "Sam A.",
					Email:       "sam.adeyemi@example.org",
					Bio:         "Treasurer. Collects plot fees every April.",
				},
				{
					FirstName: "Lena",
					LastName:  "Vogel",
					Email:     "lena.vogel@example.org",
				},
			},
		},
	}
}
