package classification

// DefaultTaxonomy returns the starter taxonomy loaded by `migrate --seed`.
// Patterns are written as they appear in titles; the matcher normalizes them.
func DefaultTaxonomy() []SeedCategory {
	return []SeedCategory{
		{
			Name: "Εκπαίδευση",
			Rules: []SeedRule{
				{Pattern: "εκπαίδευση", Weight: 0.6},
				{Pattern: "μάθημα", Weight: 0.5},
			},
			Subcategories: []SeedSubcategory{
				{
					Name: "Μαθήματα Οδήγησης",
					Rules: []SeedRule{
						{Pattern: "μάθημα οδήγησης", Weight: 0.9},
						{Pattern: "μαθήματα οδήγησης", Weight: 0.9},
						{Pattern: "σχολή οδηγών", Weight: 0.85},
						{Pattern: "δίπλωμα οδήγησης", Weight: 0.8},
					},
				},
				{
					Name: "Ξένες Γλώσσες",
					Rules: []SeedRule{
						{Pattern: "μάθημα αγγλικών", Weight: 0.9},
						{Pattern: "αγγλικά", Weight: 0.75},
						{Pattern: "γαλλικά", Weight: 0.75},
					},
				},
			},
		},
		{
			Name: "Μαγειρική",
			Rules: []SeedRule{
				{Pattern: "μαγειρική", Weight: 0.7},
			},
			Subcategories: []SeedSubcategory{
				{
					Name: "Συνταγές",
					Rules: []SeedRule{
						{Pattern: "συνταγή", Weight: 0.9},
						{Pattern: "συνταγές", Weight: 0.9},
					},
				},
				{
					Name: "Γλυκά",
					Rules: []SeedRule{
						{Pattern: "τούρτα", Weight: 0.85},
						{Pattern: "γλυκό ταψιού", Weight: 0.9},
					},
				},
			},
		},
		{
			Name: "Αθλητικά",
			Rules: []SeedRule{
				{Pattern: "αθλητικά", Weight: 0.6},
			},
			Subcategories: []SeedSubcategory{
				{
					Name: "Ποδόσφαιρο",
					Rules: []SeedRule{
						{Pattern: "ποδόσφαιρο", Weight: 0.9},
						{Pattern: "στιγμιότυπα αγώνα", Weight: 0.8},
					},
				},
				{
					Name: "Μπάσκετ",
					Rules: []SeedRule{
						{Pattern: "μπάσκετ", Weight: 0.9},
					},
				},
			},
		},
		{
			Name: "Μουσική",
			Rules: []SeedRule{
				{Pattern: "μουσική", Weight: 0.6},
				{Pattern: "τραγούδι", Weight: 0.6},
			},
			Subcategories: []SeedSubcategory{
				{
					Name: "Συναυλίες",
					Rules: []SeedRule{
						{Pattern: "συναυλία", Weight: 0.9},
					},
				},
				{
					Name: "Παραδοσιακή",
					Rules: []SeedRule{
						{Pattern: "παραδοσιακά", Weight: 0.85},
						{Pattern: "δημοτικά τραγούδια", Weight: 0.9},
					},
				},
			},
		},
		{
			Name: "Ειδήσεις",
			Rules: []SeedRule{
				{Pattern: "ειδήσεις", Weight: 0.7},
				{Pattern: "δελτίο", Weight: 0.5},
			},
			Subcategories: []SeedSubcategory{
				{
					Name: "Πολιτική",
					Rules: []SeedRule{
						{Pattern: "βουλή", Weight: 0.85},
						{Pattern: "πολιτική", Weight: 0.8},
					},
				},
				{
					Name: "Καιρός",
					Rules: []SeedRule{
						{Pattern: "πρόγνωση καιρού", Weight: 0.95},
						{Pattern: "καιρός", Weight: 0.85},
					},
				},
			},
		},
	}
}
