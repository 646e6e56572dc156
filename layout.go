//go:build !strictlayout

package tempusmark

const strictLayout = false
