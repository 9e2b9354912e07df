// Package discovery provides mDNS discovery of log collectors.
//
// Collectors advertise the "_socklog._tcp" service with a TXT record naming
// the serializer they speak; clients browse for them to avoid hardcoding
// collector addresses. Discovery is entirely optional - the logger itself
// only ever dials the host it was configured with.
package discovery
