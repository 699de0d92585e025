// internal/query/entity/synonyms.go
package entity

// Synonym tables map common spellings and misspellings onto canonical
// labels. Keys and values are already normalized (upper-case, no accents).

var familySynonyms = map[string]string{
	"MAIS":          "MAIS",
	"CORN":          "MAIS",
	"BLE FOURRAGER": "BLE FOURRAGER",
	"BLED FOURRAGER": "BLE FOURRAGER",
	"BLE FOURAGER":  "BLE FOURRAGER",
	"ORG":           "ORGE",
	"SOJA":          "GRAINES DE SOJA",
}

var productSynonyms = map[string]string{
	"MAIS":  "MAIS",
	"MAISE": "MAIS",

	"MAIS AMERICAIN":  "MAIS AMERICAIN",
	"MAIS AMERICA":    "MAIS AMERICAIN",
	"MAIS AMERICAN":   "MAIS AMERICAIN",
	"MAIS AMERICANE":  "MAIS AMERICAIN",
	"MAIS AMERICAINE": "MAIS AMERICAIN",
	"MAISE AMERICAIN": "MAIS AMERICAIN",

	"MAIS BRESILIEN":  "MAIS BRESILIEN",
	"MAISE BRESILIEN": "MAIS BRESILIEN",

	"MAIS ARGENTIN":  "MAIS ARGENTIN",
	"MAIS ARGENTEN":  "MAIS ARGENTIN",
	"MAIS ARGENTINE": "MAIS ARGENTIN",
	"MAISE ARGENTIN": "MAIS ARGENTIN",

	"MAIS ROUMAIN":  "MAIS ROUMAIN",
	"MAISE ROUMAIN": "MAIS ROUMAIN",

	"MAIS BROYE FIN": "MAIS BROYE FIN",
	"MAIS BROYE":     "MAIS BROYE",
	"MAIS BROY":      "MAIS BROYE",
	"MAISE BROYE":    "MAIS BROYE",

	"MAIS UKRENIEN":  "MAIS UKRENIEN",
	"MAIS UKREN":     "MAIS UKRENIEN",
	"MAIS UKRENINE":  "MAIS UKRENIEN",
	"MAISE UKRENIEN": "MAIS UKRENIEN",
	"CORN":           "MAIS UKRENIEN",

	"BLE FOURRAGER":       "BLE FOURRAGER",
	"BLE FOURRAGER LOCAL": "BLE FOURRAGER LOCAL",
	"BLED FOURRAGER":      "BLE FOURRAGER",
	"BLE FOURAGER":        "BLE FOURRAGER",
	"BLE":                 "BLE FOURRAGER",

	"ORG":            "ORGE",
	"ORGE IMPORT":    "ORGE IMPORT",
	"ORGE IMPORTE":   "ORGE IMPORT",
	"ORGE LOCALE Q1": "ORGE LOCALE Q1",
	"ORGE LOCALE":    "ORGE LOCALE Q1",
	"ORGE RUSSE":     "ORGE RUSSE",

	"GRAINE DE SOJA EXTRUDEE": "GRAINE DE SOJA EXTRUDEE",
	"GRAINES DE SOJA":         "GRAINES DE SOJA",
	"SOJA":                    "GRAINES DE SOJA",
}
