package country

// Country is one row of the static lookup table. CallingCode holds the
// international dialing prefix without the leading plus sign; NANP members
// carry their full four-digit area prefix (e.g. "1242" for the Bahamas) so
// longest-prefix matching can tell them apart from the shared "1".
type Country struct {
	ISO2           string
	ISO3           string
	Name           string
	CallingCode    string
	CurrencyCode   string
	CurrencyName   string
	CurrencySymbol string
}

var countries = []Country{
	{"AD", "AND", "Andorra", "376", "EUR", "Euro", "€"},
	{"AE", "ARE", "United Arab Emirates", "971", "AED", "UAE Dirham", "د.إ"},
	{"AF", "AFG", "Afghanistan", "93", "AFN", "Afghan Afghani", "؋"},
	{"AG", "ATG", "Antigua and Barbuda", "1268", "XCD", "East Caribbean Dollar", "$"},
	{"AI", "AIA", "Anguilla", "1264", "XCD", "East Caribbean Dollar", "$"},
	{"AL", "ALB", "Albania", "355", "ALL", "Albanian Lek", "L"},
	{"AM", "ARM", "Armenia", "374", "AMD", "Armenian Dram", "֏"},
	{"AO", "AGO", "Angola", "244", "AOA", "Angolan Kwanza", "Kz"},
	{"AR", "ARG", "Argentina", "54", "ARS", "Argentine Peso", "$"},
	{"AS", "ASM", "American Samoa", "1684", "USD", "US Dollar", "$"},
	{"AT", "AUT", "Austria", "43", "EUR", "Euro", "€"},
	{"AU", "AUS", "Australia", "61", "AUD", "Australian Dollar", "$"},
	{"AW", "ABW", "Aruba", "297", "AWG", "Aruban Florin", "ƒ"},
	{"AZ", "AZE", "Azerbaijan", "994", "AZN", "Azerbaijani Manat", "₼"},
	{"BA", "BIH", "Bosnia and Herzegovina", "387", "BAM", "Convertible Mark", "KM"},
	{"BB", "BRB", "Barbados", "1246", "BBD", "Barbadian Dollar", "$"},
	{"BD", "BGD", "Bangladesh", "880", "BDT", "Bangladeshi Taka", "৳"},
	{"BE", "BEL", "Belgium", "32", "EUR", "Euro", "€"},
	{"BF", "BFA", "Burkina Faso", "226", "XOF", "West African CFA Franc", "Fr"},
	{"BG", "BGR", "Bulgaria", "359", "BGN", "Bulgarian Lev", "лв"},
	{"BH", "BHR", "Bahrain", "973", "BHD", "Bahraini Dinar", ".د.ب"},
	{"BI", "BDI", "Burundi", "257", "BIF", "Burundian Franc", "Fr"},
	{"BJ", "BEN", "Benin", "229", "XOF", "West African CFA Franc", "Fr"},
	{"BM", "BMU", "Bermuda", "1441", "BMD", "Bermudian Dollar", "$"},
	{"BN", "BRN", "Brunei", "673", "BND", "Brunei Dollar", "$"},
	{"BO", "BOL", "Bolivia", "591", "BOB", "Bolivian Boliviano", "Bs."},
	{"BR", "BRA", "Brazil", "55", "BRL", "Brazilian Real", "R$"},
	{"BS", "BHS", "Bahamas", "1242", "BSD", "Bahamian Dollar", "$"},
	{"BT", "BTN", "Bhutan", "975", "BTN", "Bhutanese Ngultrum", "Nu."},
	{"BW", "BWA", "Botswana", "267", "BWP", "Botswana Pula", "P"},
	{"BY", "BLR", "Belarus", "375", "BYN", "Belarusian Ruble", "Br"},
	{"BZ", "BLZ", "Belize", "501", "BZD", "Belize Dollar", "$"},
	{"CA", "CAN", "Canada", "1", "CAD", "Canadian Dollar", "$"},
	{"CD", "COD", "DR Congo", "243", "CDF", "Congolese Franc", "Fr"},
	{"CF", "CAF", "Central African Republic", "236", "XAF", "Central African CFA Franc", "Fr"},
	{"CG", "COG", "Republic of the Congo", "242", "XAF", "Central African CFA Franc", "Fr"},
	{"CH", "CHE", "Switzerland", "41", "CHF", "Swiss Franc", "Fr"},
	{"CI", "CIV", "Ivory Coast", "225", "XOF", "West African CFA Franc", "Fr"},
	{"CL", "CHL", "Chile", "56", "CLP", "Chilean Peso", "$"},
	{"CM", "CMR", "Cameroon", "237", "XAF", "Central African CFA Franc", "Fr"},
	{"CN", "CHN", "China", "86", "CNY", "Chinese Yuan", "¥"},
	{"CO", "COL", "Colombia", "57", "COP", "Colombian Peso", "$"},
	{"CR", "CRI", "Costa Rica", "506", "CRC", "Costa Rican Colón", "₡"},
	{"CU", "CUB", "Cuba", "53", "CUP", "Cuban Peso", "$"},
	{"CV", "CPV", "Cape Verde", "238", "CVE", "Cape Verdean Escudo", "$"},
	{"CY", "CYP", "Cyprus", "357", "EUR", "Euro", "€"},
	{"CZ", "CZE", "Czechia", "420", "CZK", "Czech Koruna", "Kč"},
	{"DE", "DEU", "Germany", "49", "EUR", "Euro", "€"},
	{"DJ", "DJI", "Djibouti", "253", "DJF", "Djiboutian Franc", "Fr"},
	{"DK", "DNK", "Denmark", "45", "DKK", "Danish Krone", "kr"},
	{"DM", "DMA", "Dominica", "1767", "XCD", "East Caribbean Dollar", "$"},
	{"DO", "DOM", "Dominican Republic", "1809", "DOP", "Dominican Peso", "$"},
	{"DZ", "DZA", "Algeria", "213", "DZD", "Algerian Dinar", "د.ج"},
	{"EC", "ECU", "Ecuador", "593", "USD", "US Dollar", "$"},
	{"EE", "EST", "Estonia", "372", "EUR", "Euro", "€"},
	{"EG", "EGY", "Egypt", "20", "EGP", "Egyptian Pound", "£"},
	{"ER", "ERI", "Eritrea", "291", "ERN", "Eritrean Nakfa", "Nfk"},
	{"ES", "ESP", "Spain", "34", "EUR", "Euro", "€"},
	{"ET", "ETH", "Ethiopia", "251", "ETB", "Ethiopian Birr", "Br"},
	{"FI", "FIN", "Finland", "358", "EUR", "Euro", "€"},
	{"FJ", "FJI", "Fiji", "679", "FJD", "Fijian Dollar", "$"},
	{"FR", "FRA", "France", "33", "EUR", "Euro", "€"},
	{"GA", "GAB", "Gabon", "241", "XAF", "Central African CFA Franc", "Fr"},
	{"GB", "GBR", "United Kingdom", "44", "GBP", "Pound Sterling", "£"},
	{"GD", "GRD", "Grenada", "1473", "XCD", "East Caribbean Dollar", "$"},
	{"GE", "GEO", "Georgia", "995", "GEL", "Georgian Lari", "₾"},
	{"GH", "GHA", "Ghana", "233", "GHS", "Ghanaian Cedi", "₵"},
	{"GM", "GMB", "Gambia", "220", "GMD", "Gambian Dalasi", "D"},
	{"GN", "GIN", "Guinea", "224", "GNF", "Guinean Franc", "Fr"},
	{"GQ", "GNQ", "Equatorial Guinea", "240", "XAF", "Central African CFA Franc", "Fr"},
	{"GR", "GRC", "Greece", "30", "EUR", "Euro", "€"},
	{"GT", "GTM", "Guatemala", "502", "GTQ", "Guatemalan Quetzal", "Q"},
	{"GU", "GUM", "Guam", "1671", "USD", "US Dollar", "$"},
	{"GW", "GNB", "Guinea-Bissau", "245", "XOF", "West African CFA Franc", "Fr"},
	{"GY", "GUY", "Guyana", "592", "GYD", "Guyanese Dollar", "$"},
	{"HK", "HKG", "Hong Kong", "852", "HKD", "Hong Kong Dollar", "$"},
	{"HN", "HND", "Honduras", "504", "HNL", "Honduran Lempira", "L"},
	{"HR", "HRV", "Croatia", "385", "EUR", "Euro", "€"},
	{"HT", "HTI", "Haiti", "509", "HTG", "Haitian Gourde", "G"},
	{"HU", "HUN", "Hungary", "36", "HUF", "Hungarian Forint", "Ft"},
	{"ID", "IDN", "Indonesia", "62", "IDR", "Indonesian Rupiah", "Rp"},
	{"IE", "IRL", "Ireland", "353", "EUR", "Euro", "€"},
	{"IL", "ISR", "Israel", "972", "ILS", "Israeli New Shekel", "₪"},
	{"IN", "IND", "India", "91", "INR", "Indian Rupee", "₹"},
	{"IQ", "IRQ", "Iraq", "964", "IQD", "Iraqi Dinar", "ع.د"},
	{"IR", "IRN", "Iran", "98", "IRR", "Iranian Rial", "﷼"},
	{"IS", "ISL", "Iceland", "354", "ISK", "Icelandic Króna", "kr"},
	{"IT", "ITA", "Italy", "39", "EUR", "Euro", "€"},
	{"JM", "JAM", "Jamaica", "1876", "JMD", "Jamaican Dollar", "$"},
	{"JO", "JOR", "Jordan", "962", "JOD", "Jordanian Dinar", "د.ا"},
	{"JP", "JPN", "Japan", "81", "JPY", "Japanese Yen", "¥"},
	{"KE", "KEN", "Kenya", "254", "KES", "Kenyan Shilling", "Sh"},
	{"KG", "KGZ", "Kyrgyzstan", "996", "KGS", "Kyrgyzstani Som", "с"},
	{"KH", "KHM", "Cambodia", "855", "KHR", "Cambodian Riel", "៛"},
	{"KN", "KNA", "Saint Kitts and Nevis", "1869", "XCD", "East Caribbean Dollar", "$"},
	{"KP", "PRK", "North Korea", "850", "KPW", "North Korean Won", "₩"},
	{"KR", "KOR", "South Korea", "82", "KRW", "South Korean Won", "₩"},
	{"KW", "KWT", "Kuwait", "965", "KWD", "Kuwaiti Dinar", "د.ك"},
	{"KY", "CYM", "Cayman Islands", "1345", "KYD", "Cayman Islands Dollar", "$"},
	{"KZ", "KAZ", "Kazakhstan", "7", "KZT", "Kazakhstani Tenge", "₸"},
	{"LA", "LAO", "Laos", "856", "LAK", "Lao Kip", "₭"},
	{"LB", "LBN", "Lebanon", "961", "LBP", "Lebanese Pound", "ل.ل"},
	{"LC", "LCA", "Saint Lucia", "1758", "XCD", "East Caribbean Dollar", "$"},
	{"LK", "LKA", "Sri Lanka", "94", "LKR", "Sri Lankan Rupee", "Rs"},
	{"LR", "LBR", "Liberia", "231", "LRD", "Liberian Dollar", "$"},
	{"LS", "LSO", "Lesotho", "266", "LSL", "Lesotho Loti", "L"},
	{"LT", "LTU", "Lithuania", "370", "EUR", "Euro", "€"},
	{"LU", "LUX", "Luxembourg", "352", "EUR", "Euro", "€"},
	{"LV", "LVA", "Latvia", "371", "EUR", "Euro", "€"},
	{"LY", "LBY", "Libya", "218", "LYD", "Libyan Dinar", "ل.د"},
	{"MA", "MAR", "Morocco", "212", "MAD", "Moroccan Dirham", "د.م."},
	{"MC", "MCO", "Monaco", "377", "EUR", "Euro", "€"},
	{"MD", "MDA", "Moldova", "373", "MDL", "Moldovan Leu", "L"},
	{"ME", "MNE", "Montenegro", "382", "EUR", "Euro", "€"},
	{"MG", "MDG", "Madagascar", "261", "MGA", "Malagasy Ariary", "Ar"},
	{"MK", "MKD", "North Macedonia", "389", "MKD", "Macedonian Denar", "ден"},
	{"ML", "MLI", "Mali", "223", "XOF", "West African CFA Franc", "Fr"},
	{"MM", "MMR", "Myanmar", "95", "MMK", "Myanmar Kyat", "Ks"},
	{"MN", "MNG", "Mongolia", "976", "MNT", "Mongolian Tögrög", "₮"},
	{"MO", "MAC", "Macau", "853", "MOP", "Macanese Pataca", "P"},
	{"MR", "MRT", "Mauritania", "222", "MRU", "Mauritanian Ouguiya", "UM"},
	{"MS", "MSR", "Montserrat", "1664", "XCD", "East Caribbean Dollar", "$"},
	{"MT", "MLT", "Malta", "356", "EUR", "Euro", "€"},
	{"MU", "MUS", "Mauritius", "230", "MUR", "Mauritian Rupee", "₨"},
	{"MV", "MDV", "Maldives", "960", "MVR", "Maldivian Rufiyaa", ".ރ"},
	{"MW", "MWI", "Malawi", "265", "MWK", "Malawian Kwacha", "MK"},
	{"MX", "MEX", "Mexico", "52", "MXN", "Mexican Peso", "$"},
	{"MY", "MYS", "Malaysia", "60", "MYR", "Malaysian Ringgit", "RM"},
	{"MZ", "MOZ", "Mozambique", "258", "MZN", "Mozambican Metical", "MT"},
	{"NA", "NAM", "Namibia", "264", "NAD", "Namibian Dollar", "$"},
	{"NE", "NER", "Niger", "227", "XOF", "West African CFA Franc", "Fr"},
	{"NG", "NGA", "Nigeria", "234", "NGN", "Nigerian Naira", "₦"},
	{"NI", "NIC", "Nicaragua", "505", "NIO", "Nicaraguan Córdoba", "C$"},
	{"NL", "NLD", "Netherlands", "31", "EUR", "Euro", "€"},
	{"NO", "NOR", "Norway", "47", "NOK", "Norwegian Krone", "kr"},
	{"NP", "NPL", "Nepal", "977", "NPR", "Nepalese Rupee", "₨"},
	{"NZ", "NZL", "New Zealand", "64", "NZD", "New Zealand Dollar", "$"},
	{"OM", "OMN", "Oman", "968", "OMR", "Omani Rial", "ر.ع."},
	{"PA", "PAN", "Panama", "507", "PAB", "Panamanian Balboa", "B/."},
	{"PE", "PER", "Peru", "51", "PEN", "Peruvian Sol", "S/"},
	{"PG", "PNG", "Papua New Guinea", "675", "PGK", "Papua New Guinean Kina", "K"},
	{"PH", "PHL", "Philippines", "63", "PHP", "Philippine Peso", "₱"},
	{"PK", "PAK", "Pakistan", "92", "PKR", "Pakistani Rupee", "₨"},
	{"PL", "POL", "Poland", "48", "PLN", "Polish Złoty", "zł"},
	{"PR", "PRI", "Puerto Rico", "1787", "USD", "US Dollar", "$"},
	{"PT", "PRT", "Portugal", "351", "EUR", "Euro", "€"},
	{"PY", "PRY", "Paraguay", "595", "PYG", "Paraguayan Guaraní", "₲"},
	{"QA", "QAT", "Qatar", "974", "QAR", "Qatari Riyal", "ر.ق"},
	{"RO", "ROU", "Romania", "40", "RON", "Romanian Leu", "lei"},
	{"RS", "SRB", "Serbia", "381", "RSD", "Serbian Dinar", "дин."},
	{"RU", "RUS", "Russia", "7", "RUB", "Russian Ruble", "₽"},
	{"RW", "RWA", "Rwanda", "250", "RWF", "Rwandan Franc", "Fr"},
	{"SA", "SAU", "Saudi Arabia", "966", "SAR", "Saudi Riyal", "ر.س"},
	{"SC", "SYC", "Seychelles", "248", "SCR", "Seychellois Rupee", "₨"},
	{"SD", "SDN", "Sudan", "249", "SDG", "Sudanese Pound", "ج.س."},
	{"SE", "SWE", "Sweden", "46", "SEK", "Swedish Krona", "kr"},
	{"SG", "SGP", "Singapore", "65", "SGD", "Singapore Dollar", "$"},
	{"SI", "SVN", "Slovenia", "386", "EUR", "Euro", "€"},
	{"SK", "SVK", "Slovakia", "421", "EUR", "Euro", "€"},
	{"SL", "SLE", "Sierra Leone", "232", "SLE", "Sierra Leonean Leone", "Le"},
	{"SN", "SEN", "Senegal", "221", "XOF", "West African CFA Franc", "Fr"},
	{"SO", "SOM", "Somalia", "252", "SOS", "Somali Shilling", "Sh"},
	{"SR", "SUR", "Suriname", "597", "SRD", "Surinamese Dollar", "$"},
	{"SS", "SSD", "South Sudan", "211", "SSP", "South Sudanese Pound", "£"},
	{"SV", "SLV", "El Salvador", "503", "USD", "US Dollar", "$"},
	{"SY", "SYR", "Syria", "963", "SYP", "Syrian Pound", "£"},
	{"SZ", "SWZ", "Eswatini", "268", "SZL", "Swazi Lilangeni", "L"},
	{"TC", "TCA", "Turks and Caicos Islands", "1649", "USD", "US Dollar", "$"},
	{"TD", "TCD", "Chad", "235", "XAF", "Central African CFA Franc", "Fr"},
	{"TG", "TGO", "Togo", "228", "XOF", "West African CFA Franc", "Fr"},
	{"TH", "THA", "Thailand", "66", "THB", "Thai Baht", "฿"},
	{"TJ", "TJK", "Tajikistan", "992", "TJS", "Tajikistani Somoni", "ЅМ"},
	{"TM", "TKM", "Turkmenistan", "993", "TMT", "Turkmenistani Manat", "m"},
	{"TN", "TUN", "Tunisia", "216", "TND", "Tunisian Dinar", "د.ت"},
	{"TR", "TUR", "Turkey", "90", "TRY", "Turkish Lira", "₺"},
	{"TT", "TTO", "Trinidad and Tobago", "1868", "TTD", "Trinidad and Tobago Dollar", "$"},
	{"TW", "TWN", "Taiwan", "886", "TWD", "New Taiwan Dollar", "$"},
	{"TZ", "TZA", "Tanzania", "255", "TZS", "Tanzanian Shilling", "Sh"},
	{"UA", "UKR", "Ukraine", "380", "UAH", "Ukrainian Hryvnia", "₴"},
	{"UG", "UGA", "Uganda", "256", "UGX", "Ugandan Shilling", "Sh"},
	{"US", "USA", "United States", "1", "USD", "US Dollar", "$"},
	{"UY", "URY", "Uruguay", "598", "UYU", "Uruguayan Peso", "$"},
	{"UZ", "UZB", "Uzbekistan", "998", "UZS", "Uzbekistani Som", "so'm"},
	{"VC", "VCT", "Saint Vincent and the Grenadines", "1784", "XCD", "East Caribbean Dollar", "$"},
	{"VE", "VEN", "Venezuela", "58", "VES", "Venezuelan Bolívar", "Bs."},
	{"VG", "VGB", "British Virgin Islands", "1284", "USD", "US Dollar", "$"},
	{"VI", "VIR", "US Virgin Islands", "1340", "USD", "US Dollar", "$"},
	{"VN", "VNM", "Vietnam", "84", "VND", "Vietnamese Đồng", "₫"},
	{"VU", "VUT", "Vanuatu", "678", "VUV", "Vanuatu Vatu", "Vt"},
	{"WS", "WSM", "Samoa", "685", "WST", "Samoan Tālā", "T"},
	{"YE", "YEM", "Yemen", "967", "YER", "Yemeni Rial", "﷼"},
	{"ZA", "ZAF", "South Africa", "27", "ZAR", "South African Rand", "R"},
	{"ZM", "ZMB", "Zambia", "260", "ZMW", "Zambian Kwacha", "ZK"},
	{"ZW", "ZWE", "Zimbabwe", "263", "ZWL", "Zimbabwean Dollar", "$"},
}
