package ragchat

// Version is overwritten at build time with -ldflags "-X github.com/informatika-uin-malang/ragchat.Version=...".
var Version = "devel"
