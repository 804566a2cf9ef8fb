package currency

import "strings"

const fallbackSymbol = "$"

type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

var catalog = []Currency{
	{"USD", "$", "US Dollar"},
	{"EUR", "€", "Euro"},
	{"GBP", "£", "British Pound"},
	{"JPY", "¥", "Japanese Yen"},
	{"CAD", "C$", "Canadian Dollar"},
	{"AUD", "A$", "Australian Dollar"},
	{"CHF", "Fr", "Swiss Franc"},
	{"CNY", "¥", "Chinese Yuan"},
	{"SEK", "kr", "Swedish Krona"},
	{"NZD", "NZ$", "New Zealand Dollar"},
	{"PKR", "₨", "Pakistani Rupee"},
	{"INR", "₹", "Indian Rupee"},
	{"BDT", "৳", "Bangladeshi Taka"},
	{"LKR", "Rs", "Sri Lankan Rupee"},
	{"AED", "د.إ", "UAE Dirham"},
	{"SAR", "﷼", "Saudi Riyal"},
	{"QAR", "ر.ق", "Qatari Riyal"},
	{"KWD", "د.ك", "Kuwaiti Dinar"},
	{"BHD", ".د.ب", "Bahraini Dinar"},
	{"OMR", "ر.ع.", "Omani Rial"},
	{"EGP", "£", "Egyptian Pound"},
	{"ZAR", "R", "South African Rand"},
	{"NGN", "₦", "Nigerian Naira"},
	{"KES", "Sh", "Kenyan Shilling"},
	{"GHS", "₵", "Ghanaian Cedi"},
	{"TZS", "Sh", "Tanzanian Shilling"},
	{"UGX", "Sh", "Ugandan Shilling"},
	{"RWF", "Fr", "Rwandan Franc"},
	{"ETB", "Br", "Ethiopian Birr"},
	{"MAD", "د.م.", "Moroccan Dirham"},
	{"TND", "د.ت", "Tunisian Dinar"},
	{"DZD", "د.ج", "Algerian Dinar"},
	{"LYD", "ل.د", "Libyan Dinar"},
	{"SDG", "ج.س.", "Sudanese Pound"},
	{"SOS", "Sh", "Somali Shilling"},
	{"DJF", "Fr", "Djiboutian Franc"},
	{"ERN", "Nfk", "Eritrean Nakfa"},
	{"MRU", "UM", "Mauritanian Ouguiya"},
	{"CFA", "Fr", "West African CFA Franc"},
	{"XAF", "Fr", "Central African CFA Franc"},
	{"KRW", "₩", "South Korean Won"},
	{"THB", "฿", "Thai Baht"},
	{"VND", "₫", "Vietnamese Dong"},
	{"IDR", "Rp", "Indonesian Rupiah"},
	{"MYR", "RM", "Malaysian Ringgit"},
	{"SGD", "S$", "Singapore Dollar"},
	{"PHP", "₱", "Philippine Peso"},
	{"HKD", "HK$", "Hong Kong Dollar"},
	{"TWD", "NT$", "Taiwan Dollar"},
	{"MXN", "$", "Mexican Peso"},
	{"BRL", "R$", "Brazilian Real"},
	{"ARS", "$", "Argentine Peso"},
	{"CLP", "$", "Chilean Peso"},
	{"COP", "$", "Colombian Peso"},
	{"PEN", "S/", "Peruvian Sol"},
	{"UYU", "$", "Uruguayan Peso"},
	{"BOB", "Bs", "Bolivian Boliviano"},
	{"PYG", "₲", "Paraguayan Guarani"},
	{"VES", "Bs.S", "Venezuelan Bolívar"},
	{"GYD", "$", "Guyanese Dollar"},
	{"SRD", "$", "Surinamese Dollar"},
	{"TTD", "TT$", "Trinidad and Tobago Dollar"},
	{"JMD", "J$", "Jamaican Dollar"},
	{"BBD", "Bds$", "Barbadian Dollar"},
	{"BSD", "B$", "Bahamian Dollar"},
	{"BZD", "BZ$", "Belize Dollar"},
	{"GTQ", "Q", "Guatemalan Quetzal"},
	{"HNL", "L", "Honduran Lempira"},
	{"NIO", "C$", "Nicaraguan Córdoba"},
	{"CRC", "₡", "Costa Rican Colón"},
	{"PAB", "B/.", "Panamanian Balboa"},
	{"DOP", "RD$", "Dominican Peso"},
	{"HTG", "G", "Haitian Gourde"},
	{"CUP", "$", "Cuban Peso"},
	{"RUB", "₽", "Russian Ruble"},
	{"UAH", "₴", "Ukrainian Hryvnia"},
	{"PLN", "zł", "Polish Złoty"},
	{"CZK", "Kč", "Czech Koruna"},
	{"HUF", "Ft", "Hungarian Forint"},
	{"RON", "lei", "Romanian Leu"},
	{"BGN", "лв", "Bulgarian Lev"},
	{"HRK", "kn", "Croatian Kuna"},
	{"RSD", "дин", "Serbian Dinar"},
	{"BAM", "КМ", "Bosnia-Herzegovina Convertible Mark"},
	{"MKD", "ден", "Macedonian Denar"},
	{"ALL", "L", "Albanian Lek"},
	{"EURM", "€", "Euro (Montenegro)"},
	{"TRY", "₺", "Turkish Lira"},
	{"GEL", "₾", "Georgian Lari"},
	{"AMD", "֏", "Armenian Dram"},
	{"AZN", "₼", "Azerbaijani Manat"},
	{"BYN", "Br", "Belarusian Ruble"},
	{"MDL", "L", "Moldovan Leu"},
	{"KZT", "₸", "Kazakhstani Tenge"},
	{"KGS", "с", "Kyrgyzstani Som"},
	{"TJS", "ЅМ", "Tajikistani Somoni"},
	{"TMT", "m", "Turkmenistani Manat"},
	{"AFN", "؋", "Afghan Afghani"},
	{"IRR", "﷼", "Iranian Rial"},
	{"IQD", "ع.د", "Iraqi Dinar"},
	{"SYP", "£", "Syrian Pound"},
	{"LBP", "ل.ل", "Lebanese Pound"},
	{"JOD", "د.ا", "Jordanian Dinar"},
	{"ILS", "₪", "Israeli New Shekel"},
	{"YER", "﷼", "Yemeni Rial"},
}

var byCode = func() map[string]Currency {
	index := make(map[string]Currency, len(catalog))
	for _, c := range catalog {
		index[c.Code] = c
	}
	return index
}()

// All returns the catalog in display order.
func All() []Currency {
	return append([]Currency(nil), catalog...)
}

func Lookup(code string) (Currency, bool) {
	c, ok := byCode[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// Symbol returns the display symbol for code, or "$" for unknown codes.
func Symbol(code string) string {
	if c, ok := Lookup(code); ok {
		return c.Symbol
	}
	return fallbackSymbol
}
