package rules

// DefaultRules returns the built-in rule table.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:       "Supermarkt",
			Category:   "Lebensmittel",
			Regex:      `\b(rewe|edeka|aldi|lidl|netto|penny|kaufland|norma|tegut|globus|real|supermarkt)\b`,
			Confidence: 0.90,
			Reasoning:  "Supermarkt erkannt",
		},
		{
			Name:       "Tankstelle",
			Category:   "Auto",
			Regex:      `\b(aral|shell|esso|jet|agip|omv|totalenergies|tankstelle|tanken)\b`,
			Sign:       SignExpense,
			Confidence: 0.85,
			Reasoning:  "Tankstelle erkannt",
		},
		{
			Name:       "Streaming",
			Category:   "Unterhaltung",
			Regex:      `\b(netflix|spotify|disney|dazn|sky|prime video|youtube premium|apple music|audible)\b`,
			Sign:       SignExpense,
			Confidence: 0.85,
			Reasoning:  "Streaming-Dienst erkannt",
		},
		{
			Name:       "Restaurant",
			Category:   "Restaurant",
			Regex:      `\b(restaurant|pizzeria|burger|mcdonald'?s|bistro|imbiss|sushi|kebab|lieferando|wolt|cafe|café)`,
			Sign:       SignExpense,
			Confidence: 0.80,
			Reasoning:  "Restaurant oder Lieferdienst erkannt",
		},
		{
			Name:       "Online-Shop",
			Category:   "Shopping",
			Regex:      `\b(amazon|ebay|zalando|otto|aliexpress|temu|about you)\b`,
			Sign:       SignExpense,
			Confidence: 0.75,
			Reasoning:  "Online-Shop erkannt",
		},
		{
			Name:       "Miete",
			Category:   "Wohnen",
			Regex:      `\b(miete|kaltmiete|warmmiete|hausverwaltung|wohnungsbau|vermieter)\b`,
			Sign:       SignExpense,
			Confidence: 0.90,
			Reasoning:  "Mietzahlung erkannt",
		},
		{
			Name:       "Nebenkosten",
			Category:   "Nebenkosten",
			Regex:      `\b(stadtwerke|strom|gas|wasser|vattenfall|e\.on|eon|enbw|nebenkosten|abschlag|telekom|vodafone|o2)\b`,
			Sign:       SignExpense,
			Confidence: 0.85,
			Reasoning:  "Versorger erkannt",
		},
		{
			Name:       "Versicherung",
			Category:   "Versicherung",
			Regex:      `(versicherung|\ballianz\b|\baxa\b|\bhuk\b|\bergo\b|\bdebeka\b|\bgenerali\b)`,
			Sign:       SignExpense,
			Confidence: 0.90,
			Reasoning:  "Versicherung erkannt",
		},
		{
			Name:       "Gesundheit",
			Category:   "Gesundheit",
			Regex:      `(apotheke|\barzt\b|arztpraxis|zahnarzt|physiotherapie|krankenhaus|klinik|docmorris)`,
			Sign:       SignExpense,
			Confidence: 0.85,
			Reasoning:  "Apotheke oder Arzt erkannt",
		},
		{
			Name:       "Gehalt",
			Category:   "Gehalt",
			Regex:      `\b(gehalt|lohn|bezüge|salary|entgelt)`,
			Sign:       SignIncome,
			Confidence: 0.95,
			Reasoning:  "Gehaltseingang erkannt",
		},
		{
			Name:       "ÖPNV",
			Category:   "Transport",
			Regex:      `(\bbvg\b|\bmvg\b|\bhvv\b|\bvbb\b|\brmv\b|\bdb\b|deutsche bahn|deutschlandticket|fahrkarte|ticket|verkehrsbetriebe)`,
			Sign:       SignExpense,
			Confidence: 0.85,
			Reasoning:  "Öffentlicher Nahverkehr erkannt",
		},
		{
			Name:       "Drogerie",
			Category:   "Drogerie",
			Regex:      `(\bdm\b|dm-drogerie|rossmann|\bmüller\b|budni|drogerie)`,
			Sign:       SignExpense,
			Confidence: 0.85,
			Reasoning:  "Drogerie erkannt",
		},
	}
}
