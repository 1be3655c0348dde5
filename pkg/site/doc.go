// Package site renders the DevCraft pages from the content document.
package site
