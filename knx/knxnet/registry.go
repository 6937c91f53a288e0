// Licensed under the MIT license which can be found in the LICENSE file.
package knxnet

// produce returns a freshly allocated, zero-valued Service for the given
// ServiceID, or false if the id isn't one this package knows how to parse.
func produce(id ServiceID) (Service, bool) {
	switch id {
	case SearchReqService:
		return &SearchReq{}, true
	case SearchResService:
		return &SearchRes{}, true
	case SearchReqExtService:
		return &SearchReqExt{}, true
	case SearchResExtService:
		return &SearchResExt{}, true
	case DescriptionReqService:
		return &DescriptionReq{}, true
	case DescriptionResService:
		return &DescriptionRes{}, true
	case ConnectReqService:
		return &ConnectReq{}, true
	case ConnectResService:
		return &ConnectRes{}, true
	case ConnectionstateReqService:
		return &ConnectionStateReq{}, true
	case ConnectionstateResService:
		return &ConnectionStateRes{}, true
	case DisconnectReqService:
		return &DisconnectReq{}, true
	case DisconnectResService:
		return &DisconnectRes{}, true
	case DeviceConfigurationReqService:
		return &DeviceConfigReq{}, true
	case DeviceConfigurationAckService:
		return &DeviceConfigAck{}, true
	case TunnelingReqService:
		return &TunnelReq{}, true
	case TunnelingAckService:
		return &TunnelAck{}, true
	case TunnelingFeatureGetService:
		return &TunnelingFeatureGet{}, true
	case TunnelingFeatureSetService:
		return &TunnelingFeatureSet{}, true
	case TunnelingFeatureResponseService:
		return &TunnelingFeatureResponse{}, true
	case TunnelingFeatureInfoService:
		return &TunnelingFeatureInfo{}, true
	case RoutingIndService:
		return &RoutingInd{}, true
	case RoutingLostMsgService:
		return &RoutingLostMessage{}, true
	case RoutingBusyIndService:
		return &RoutingBusy{}, true
	case RoutingSysBcastService:
		return &RoutingSystemBroadcast{}, true
	case SecureSessionReqService:
		return &SecureSessionReq{}, true
	default:
		return nil, false
	}
}

// Parse decodes a complete KNXnet/IP frame (header + body) into its
// concrete Service, dispatching on the header's service type id. Unknown
// service types yield ErrUnsupportedServiceType; malformed headers or
// bodies yield the matching sentinel from errors.go. Errors returned here
// are local to the receive path: callers must not tear down a connection
// solely because Parse failed on one datagram.
func Parse(data []byte) (Service, error) {
	return UnpackService(data, produce)
}
