package tray

// iconData is a 16x16 template PNG: a ring around a dot.
var iconData = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x10,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0xf3, 0xff, 0x61, 0x00, 0x00, 0x00,
	0x36, 0x49, 0x44, 0x41, 0x54, 0x78, 0xda, 0x63, 0x60, 0xa0, 0x11, 0xf8,
	0x8f, 0x03, 0x53, 0xa4, 0x99, 0x28, 0x43, 0xfe, 0x13, 0x89, 0x09, 0x6a,
	0x26, 0x59, 0x0d, 0x29, 0xfe, 0xc4, 0xaa, 0x16, 0x9b, 0xe0, 0x7f, 0x22,
	0xc4, 0x87, 0xbb, 0x01, 0x34, 0x89, 0x09, 0x92, 0xd2, 0x02, 0xcd, 0x52,
	0x23, 0xed, 0x33, 0x13, 0x49, 0x00, 0x00, 0x06, 0x76, 0x6f, 0x91, 0xe8,
	0x24, 0x07, 0xf8, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}
