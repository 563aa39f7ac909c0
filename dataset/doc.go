// Package dataset enumerates image-caption pairs from the supported
// dataset directory layouts.
//
// A Dataset is a finite, ordered, single-pass sequence of items with a
// known total count. Both supported layouts (Flickr8k and Flickr30k) sit
// behind the same capability: Len plus callback iteration. Items group
// every caption published for an image; BestCaption selects the single
// representative one.
package dataset
