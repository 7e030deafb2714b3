package meal

// prices is the fixed price per preference, in rupees.
var prices = map[Preference]int{
	PreferenceVeg:     93,
	PreferencePaneer:  113,
	PreferenceChicken: 113,
	PreferenceFish:    103,
	PreferenceEgg:     98,
	PreferenceNone:    0,
}

// PriceFor looks up the price of a preference. Unknown values cost 0.
func PriceFor(p Preference) int {
	return prices[p]
}

// TotalPrice sums the price of every selected slot. Only slots present in
// selections count; a slot with preference "none" adds nothing.
func TotalPrice(selections map[Slot]Preference) int {
	total := 0
	for _, pref := range selections {
		if pref == PreferenceNone {
			continue
		}
		total += PriceFor(pref)
	}
	return total
}

// PriceTable returns a copy of the price list for display.
func PriceTable() map[Preference]int {
	out := make(map[Preference]int, len(prices))
	for k, v := range prices {
		out[k] = v
	}
	return out
}
