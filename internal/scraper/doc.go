// Package scraper provides HTTP fetching and HTML parsing for the Utah court calendar.
//
// The scraper package queries the public calendar search page on legacy.utcourts.gov
// and extracts one hearing.Case per case container ("div.casehover") in document
// order. Each field is recovered by an independent extractor; a missing anchor only
// leaves that field empty. The time and date of a hearing live in a block that
// precedes its container, so they are found with a bounded backward walk.
package scraper
