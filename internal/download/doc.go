// Package download implements the asset fetch pipeline: the ordered task
// queue, the missing-asset scanner, ad-hoc admission, the single background
// worker with its two acquisition strategies (yt-dlp extraction and direct
// HTTP), and the controller that applies worker events to the queue.
package download
