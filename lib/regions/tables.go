package regions

// Alternate spellings and historically renamed federal subjects, keyed
// by lower-cased raw name. Covers the 2014+ official renames as well as
// pre-1993 naming found in the 1991/1996 documents.
var manualOverrides = map[string]string{
	"г. москва":                                  "moskva",
	"москва":                                     "moskva",
	"г. санкт-петербург":                         "spb",
	"санкт-петербург":                            "spb",
	"ленинград":                                  "spb",
	"ямало-ненецкий автономный округ":            "yamalo_nenetskiy",
	"ненецкий автономный округ":                  "nenetskiy",
	"ханты-мансийский автономный округ - югра":   "hmao",
	"ханты-мансийский автономный округ — югра":   "hmao",
	"ханты-мансийский автономный округ":          "hmao",
	"чукотский автономный округ":                 "chukotskiy",
	"еврейская автономная область":               "evreyskaya",
	"республика северная осетия - алания":        "severnaya_osetiya",
	"республика северная осетия":                 "severnaya_osetiya",
	"кемеровская область - кузбасс":              "kemerovskaya",
	"кемеровская область":                        "kemerovskaya",
	// historical (2000/1996/1991)
	"камчатская область":                         "kamchatskiy",
	"пермская область":                           "permskiy",
	"читинская область":                          "zabaykalskiy",
	"чечено-ингушетия":                           "chechenskaya",
	"чечено-ингушская республика":                "chechenskaya",
	"ингушская республика":                       "ingushetiya",
}

// Rows that never map to a federal subject: nationwide aggregates,
// extraterritorial voting and the autonomous okrugs dissolved into
// neighboring subjects during the 2005-2008 mergers.
var skipRegions = []string{
	"российская федерация", "россия", "сумма",
	"город байконур", "байконур",
	"территория за пределами рф",
	"территории за рубежом",
	"за рубежом",
	"агинский бурятский автономный округ",
	"коми-пермяцкий автономный округ",
	"корякский автономный округ",
	"таймырский (долгано-ненецкий) автономный округ",
	"усть-ордынский бурятский автономный округ",
	"эвенкийский автономный округ",
}
