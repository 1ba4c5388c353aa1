// go-qrg2
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-qrg2.
//
// go-qrg2 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-qrg2 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-qrg2; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package qrg2

import (
	"context"
	"fmt"
	"strconv"
)

// PC word length-field layout: the EPC word count sits in the upper five
// bits, encoded as floor(words/2)<<12 plus an odd-word flag.
const (
	pcLengthShift = 12
	pcOddWordFlag = 0x0800
	pcBaseMask    = 0x07FF
)

// WriteTagEPC rewrites the EPC of the selected transponders and updates
// the length field of their PC word to match. The protocol exposes this
// as two independent writes with no device-side transaction; the field
// stays continuously powered between them, so both write responses key
// by the pre-rewrite EPC and can be reconciled per tag.
//
// A non-empty tid installs a temporary TID mask around the operation so
// only the targeted tag responds; the previous mask configuration is
// restored afterwards.
//
// The new EPC length in hex digits must be a multiple of 4 (one 16-bit
// word per 4 digits). Per-tag failures are reported on the records:
// a record with error state did not (fully) change identity.
func (d *Device) WriteTagEPC(tid, newEPC string, start int) ([]*UhfTag, error) {
	return d.WriteTagEPCContext(context.Background(), tid, newEPC, start)
}

// WriteTagEPCContext rewrites tag EPCs with context support
func (d *Device) WriteTagEPCContext(ctx context.Context, tid, newEPC string, start int) ([]*UhfTag, error) {
	if len(newEPC)%4 != 0 {
		return nil, newReaderError(ErrInvalidParameter, cmdWriteData,
			"the new epc length must be a multiple of 4")
	}
	epcWords := len(newEPC) / 4
	lengthBits := (epcWords / 2) << pcLengthShift
	if epcWords%2 == 1 {
		lengthBits |= pcOddWordFlag
	}

	var savedMask MaskSettings
	if tid != "" {
		var err error
		savedMask, err = d.GetMask()
		if err != nil {
			return nil, err
		}
		if err := d.SetMask(MemoryTID, 0, tid); err != nil {
			return nil, err
		}
	}

	// Read the PC word (2 bytes) of everything currently in the field.
	pcTags, err := d.ReadTagDataContext(ctx, 0, 2, MemoryPC, "")
	if err != nil {
		return nil, err
	}
	if len(pcTags) == 0 {
		// no tags found
		return pcTags, nil
	}

	pcBase, err := commonPCBase(pcTags)
	if err != nil {
		return nil, err
	}

	// Write the new EPC. Successful tags change identity going forward,
	// but both write responses below still key by the old EPC.
	epcTags, err := d.WriteTagDataContext(ctx, newEPC, start, MemoryEPC, "")
	if err != nil {
		return nil, err
	}
	order := make([]string, 0, len(epcTags))
	tags := make(map[string]*UhfTag, len(epcTags))
	for _, tag := range epcTags {
		order = append(order, tag.EPC)
		tags[tag.EPC] = tag
		if !tag.HasError() {
			tag.OldEPC = tag.EPC
			tag.EPC = newEPC
		}
	}

	// Merge the new length bits into the common PC base and write it
	// back.
	pcValue := pcBase | lengthBits
	pcTags, err = d.WriteTagDataContext(ctx, fmt.Sprintf("%04X", pcValue), 0, MemoryPC, "")
	if err != nil {
		return nil, err
	}
	for _, pcTag := range pcTags {
		epcTag, found := tags[pcTag.EPC]
		switch {
		case found && pcTag.HasError():
			if !epcTag.HasError() {
				epcTag.SetErrorMessage("epc written, epc length not updated!")
			} else {
				epcTag.SetErrorMessage("epc not written - " + epcTag.ErrorMessage())
			}
		case !found && !pcTag.HasError():
			// The EPC write missed this tag but the length update hit it.
			pcTag.SetErrorMessage("epc not written, but epc length updated!")
			order = append(order, pcTag.EPC)
			tags[pcTag.EPC] = pcTag
		}
		// Both writes failed for a tag unknown to the EPC response:
		// nothing actionable, dropped.
	}

	if tid != "" {
		if savedMask.Enabled {
			if err := d.SetMask(savedMask.Memory, savedMask.Start, savedMask.Mask); err != nil {
				return nil, err
			}
		} else if err := d.ResetMask(); err != nil {
			return nil, err
		}
	}

	result := make([]*UhfTag, 0, len(order))
	for _, epc := range order {
		result = append(result, tags[epc])
	}
	return result, nil
}

// commonPCBase decodes the PC words read from the field, masks off the
// length bits and requires a single distinct base value. Co-located tags
// with different PC bases would all receive the same derived PC byte, so
// a batch rewrite across them risks cross-tag data corruption.
func commonPCBase(pcTags []*UhfTag) (int, error) {
	base := 0
	for i, tag := range pcTags {
		value, err := strconv.ParseUint(tag.Data, 16, 32)
		if err != nil {
			return 0, newReaderError(ErrUnexpectedResponse, cmdReadData,
				fmt.Sprintf("not expected pc value - %q", tag.Data))
		}
		masked := int(value) & pcBaseMask
		if i == 0 {
			base = masked
		} else if masked != base {
			return 0, newReaderError(ErrMixedTagPopulation, cmdWriteData,
				"different tags are in the field, which would result in data loss when writing. "+
					"Please edit individually.")
		}
	}
	return base, nil
}
