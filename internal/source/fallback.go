package source

import "github.com/sells-group/locseed/internal/model"

// fallbackCatalog is a degraded-mode dataset of city centres. It is neither
// authoritative nor complete.
var fallbackCatalog = []model.LocationRecord{
	model.NewStreetAddress("0001", "Oslo", "Oslo", "Oslo", "0301", "03"),
	model.NewStreetAddress("5001", "Bergen", "Bergen", "Vestland", "4601", "46"),
	model.NewStreetAddress("7001", "Trondheim", "Trondheim", "Trøndelag", "5001", "50"),
	model.NewStreetAddress("4001", "Stavanger", "Stavanger", "Rogaland", "1103", "11"),
	model.NewStreetAddress("1601", "Fredrikstad", "Fredrikstad", "Østfold", "0106", "01"),
	model.NewStreetAddress("3001", "Drammen", "Drammen", "Viken", "3005", "30"),
	model.NewStreetAddress("3201", "Sandefjord", "Sandefjord", "Vestfold og Telemark", "3804", "38"),
	model.NewStreetAddress("2001", "Lillestrøm", "Lillestrøm", "Viken", "3030", "30"),
	model.NewStreetAddress("6001", "Ålesund", "Ålesund", "Møre og Romsdal", "1507", "15"),
	model.NewStreetAddress("2801", "Gjøvik", "Gjøvik", "Innlandet", "3407", "34"),
	model.NewStreetAddress("1801", "Askim", "Indre Østfold", "Østfold", "0114", "01"),
	model.NewStreetAddress("8001", "Bodø", "Bodø", "Nordland", "1804", "18"),
	model.NewStreetAddress("3701", "Skien", "Skien", "Vestfold og Telemark", "3807", "38"),
	model.NewStreetAddress("4601", "Kristiansand", "Kristiansand", "Agder", "4204", "42"),
	model.NewStreetAddress("2301", "Hamar", "Hamar", "Innlandet", "3403", "34"),
	model.NewStreetAddress("1501", "Moss", "Moss", "Østfold", "0104", "01"),
	model.NewStreetAddress("1401", "Ski", "Nordre Follo", "Viken", "3020", "30"),
	model.NewStreetAddress("9001", "Tromsø", "Tromsø", "Troms og Finnmark", "5401", "54"),
	model.NewStreetAddress("3101", "Tønsberg", "Tønsberg", "Vestfold og Telemark", "3803", "38"),
	model.NewStreetAddress("2601", "Lillehammer", "Lillehammer", "Innlandet", "3405", "34"),
	model.NewStreetAddress("1301", "Sandvika", "Bærum", "Viken", "3024", "30"),
	model.NewStreetAddress("4301", "Sandnes", "Sandnes", "Rogaland", "1108", "11"),
	model.NewStreetAddress("1701", "Sarpsborg", "Sarpsborg", "Østfold", "0105", "01"),
	model.NewStreetAddress("4401", "Flekkefjord", "Flekkefjord", "Agder", "4211", "42"),
	model.NewStreetAddress("9401", "Harstad", "Harstad", "Troms og Finnmark", "5404", "54"),
}

// Fallback returns a copy of the compiled-in catalog.
func Fallback() []model.LocationRecord {
	out := make([]model.LocationRecord, len(fallbackCatalog))
	copy(out, fallbackCatalog)
	return out
}
