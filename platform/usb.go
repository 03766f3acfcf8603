//go:build usb

/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package platform

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/andreas-jonsson/virtualps2/emulator/dialog"
	"github.com/andreas-jonsson/virtualps2/emulator/hid"
	"github.com/google/gousb"
	"github.com/manifoldco/promptui"
)

const (
	hidSubclassBoot     = 1
	hidProtocolKeyboard = 1

	hidRequestType = 0x21 // Host to device, class, interface.
	hidSetIdle     = 0x0A
	hidSetProtocol = 0x0B
	protocolBoot   = 0
)

type usbPlatform struct {
	handler
	usbFilter
}

// bootInterface locates the boot keyboard interface of a device.
type bootInterface struct {
	config, number, alt int
	endpoint            int
}

func findBootInterface(desc *gousb.DeviceDesc) (bootInterface, bool) {
	for cfgNum, cfg := range desc.Configs {
		for _, intf := range cfg.Interfaces {
			for _, alt := range intf.AltSettings {
				if alt.Class != gousb.ClassHID || alt.SubClass != hidSubclassBoot || alt.Protocol != hidProtocolKeyboard {
					continue
				}
				for _, ep := range alt.Endpoints {
					if ep.Direction == gousb.EndpointDirectionIn && ep.TransferType == gousb.TransferTypeInterrupt {
						return bootInterface{config: cfgNum, number: alt.Number, alt: alt.Alternate, endpoint: ep.Number}, true
					}
				}
			}
		}
	}
	return bootInterface{}, false
}

func (p *usbPlatform) filter() *usbFilter {
	return &p.usbFilter
}

func usbStart(mainLoop func(Platform), configs ...Config) error {
	p := &usbPlatform{}
	for _, cfg := range configs {
		if err := cfg(p); err != nil {
			return err
		}
	}

	ctx := gousb.NewContext()
	defer ctx.Close()

	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		if !p.match(uint16(desc.Vendor), uint16(desc.Product)) {
			return false
		}
		_, ok := findBootInterface(desc)
		return ok
	})
	if len(devs) == 0 {
		if err != nil {
			return err
		}
		return ErrNoKeyboard
	}

	dev, err := selectDevice(devs)
	for _, d := range devs {
		if d != dev {
			d.Close()
		}
	}
	if err != nil {
		return err
	}
	defer dev.Close()

	bi, _ := findBootInterface(dev.Desc)
	if err := dev.SetAutoDetach(true); err != nil {
		log.Print("Could not detach kernel driver: ", err)
	}

	cfg, err := dev.Config(bi.config)
	if err != nil {
		return err
	}
	defer cfg.Close()

	intf, err := cfg.Interface(bi.number, bi.alt)
	if err != nil {
		return err
	}
	defer intf.Close()

	if _, err := dev.Control(hidRequestType, hidSetProtocol, protocolBoot, uint16(bi.number), nil); err != nil {
		return fmt.Errorf("could not select boot protocol: %w", err)
	}
	if _, err := dev.Control(hidRequestType, hidSetIdle, 0, uint16(bi.number), nil); err != nil {
		log.Print("SET_IDLE failed: ", err)
	}

	ep, err := intf.InEndpoint(bi.endpoint)
	if err != nil {
		return err
	}

	log.Printf("Using USB keyboard: %s", describeDevice(dev))

	readCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.readReports(readCtx, ep)
		close(done)
	}()

	Instance = p
	mainLoop(p)

	cancel()
	<-done
	return nil
}

func (p *usbPlatform) readReports(ctx context.Context, ep *gousb.InEndpoint) {
	var tracker hid.Tracker
	buf := make([]byte, ep.Desc.MaxPacketSize)

	for {
		n, err := ep.ReadContext(ctx, buf)
		if ctx.Err() != nil {
			p.emit(tracker.Release()...)
			return
		}
		if err != nil {
			if errors.Is(err, gousb.ErrorNoDevice) {
				log.Print("USB keyboard disconnected")
				p.emit(tracker.Release()...)
				dialog.Quit()
				return
			}
			log.Print("USB read error: ", err)
			continue
		}
		if n < len(hid.Report{}) {
			continue
		}

		var r hid.Report
		copy(r[:], buf)
		p.emit(tracker.Update(r)...)
	}
}

func describeDevice(dev *gousb.Device) string {
	s := fmt.Sprintf("%s:%s", dev.Desc.Vendor, dev.Desc.Product)
	if m, err := dev.Manufacturer(); err == nil && m != "" {
		s += " " + m
	}
	if prod, err := dev.Product(); err == nil && prod != "" {
		s += " " + prod
	}
	return s
}

func selectDevice(devs []*gousb.Device) (*gousb.Device, error) {
	if len(devs) == 1 {
		return devs[0], nil
	}

	items := make([]string, len(devs))
	for i, d := range devs {
		items[i] = describeDevice(d)
	}
	prompt := promptui.Select{
		Label: "Select keyboard",
		Items: items,
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return nil, err
	}
	return devs[idx], nil
}

func (*usbPlatform) SetTitle(string)   {}
func (*usbPlatform) SetStatus(string)  {}
func (*usbPlatform) SetIndicator(bool) {}
