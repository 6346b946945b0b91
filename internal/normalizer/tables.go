package normalizer

// Tables holds the lookup data the normalizer consults. All of it can be
// replaced from a feed profile without touching the algorithms.
type Tables struct {
	// Availability maps an availability tier code to an on-hand quantity.
	Availability map[string]int
	// Countries maps a country name (any case, accents ignored) to ISO alpha-2.
	Countries map[string]string
	// CallingCodes lists the international calling codes recognised in
	// phone numbers written without a leading plus.
	CallingCodes []string
	// MobilePrefixes lists national mobile prefixes that receive
	// DefaultCallingCode when no country code is present.
	MobilePrefixes     []string
	DefaultCallingCode string
	// Language is the BCP 47 tag used for case mapping.
	Language string
}

// DefaultAvailability is the tier table used by the single-vendor feed.
func DefaultAvailability() map[string]int {
	return map[string]int{
		"A": 1,
		"B": 4,
		"C": 10,
	}
}

// DefaultCountries returns the bundled country synonym table.
func DefaultCountries() map[string]string {
	return map[string]string{
		"italia": "IT", "italy": "IT", "repubblica italiana": "IT",
		"san marino": "SM", "repubblica di san marino": "SM",
		"citta del vaticano": "VA", "vaticano": "VA", "vatican city": "VA",
		"svizzera": "CH", "switzerland": "CH", "schweiz": "CH", "suisse": "CH",
		"francia": "FR", "france": "FR",
		"germania": "DE", "germany": "DE", "deutschland": "DE",
		"austria": "AT", "osterreich": "AT",
		"spagna": "ES", "spain": "ES", "espana": "ES",
		"portogallo": "PT", "portugal": "PT",
		"regno unito": "GB", "united kingdom": "GB", "gran bretagna": "GB", "great britain": "GB", "inghilterra": "GB",
		"irlanda": "IE", "ireland": "IE",
		"belgio": "BE", "belgium": "BE", "belgique": "BE",
		"paesi bassi": "NL", "olanda": "NL", "netherlands": "NL", "nederland": "NL",
		"lussemburgo": "LU", "luxembourg": "LU",
		"danimarca": "DK", "denmark": "DK",
		"svezia": "SE", "sweden": "SE",
		"norvegia": "NO", "norway": "NO",
		"finlandia": "FI", "finland": "FI",
		"polonia": "PL", "poland": "PL",
		"repubblica ceca": "CZ", "czech republic": "CZ", "czechia": "CZ",
		"slovacchia": "SK", "slovakia": "SK",
		"ungheria": "HU", "hungary": "HU",
		"slovenia": "SI",
		"croazia":  "HR", "croatia": "HR",
		"grecia": "GR", "greece": "GR",
		"romania":              "RO",
		"bulgaria":             "BG",
		"malta":                "MT",
		"principato di monaco": "MC", "monaco": "MC",
		"albania":     "AL",
		"stati uniti": "US", "stati uniti d'america": "US", "united states": "US", "usa": "US",
		"canada":  "CA",
		"brasile": "BR", "brazil": "BR",
		"argentina": "AR",
		"australia": "AU",
	}
}

// DefaultCallingCodes lists calling codes recognised without a plus sign.
func DefaultCallingCodes() []string {
	return []string{"39", "41", "33", "49", "43", "34", "351", "44", "32", "31", "352", "378", "386", "385", "30"}
}

// DefaultMobilePrefixes lists Italian mobile operator prefixes.
func DefaultMobilePrefixes() []string {
	return []string{
		"320", "324", "327", "328", "329",
		"330", "331", "333", "334", "335", "336", "337", "338", "339",
		"340", "342", "343", "344", "345", "346", "347", "348", "349",
		"350", "351", "352", "360", "366", "368",
		"370", "371", "373", "377", "380", "388", "389", "391", "392", "393",
	}
}

// DefaultTables returns the bundled tables.
func DefaultTables() Tables {
	return Tables{
		Availability:       DefaultAvailability(),
		Countries:          DefaultCountries(),
		CallingCodes:       DefaultCallingCodes(),
		MobilePrefixes:     DefaultMobilePrefixes(),
		DefaultCallingCode: "39",
		Language:           "it",
	}
}
