// Package web implements the page fetcher against live HTTP origins.
// Listing pages are scraped for PDF anchors; document text is produced by
// validating the PDF and handing it to pdftotext. Remote calls share a
// rate limiter so polling stays polite towards the tracked sites.
package web
