// Package fetch implements the client for the external crawling API that
// renders pages and returns raw HTML plus page metadata. It is the only
// component that talks to the network; everything downstream works on the
// FetchResult it produces.
package fetch
