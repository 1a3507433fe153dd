package llm

import (
	"fmt"

	"github.com/safespace-id/safespace-backend/internal/domain"
)

// CompanionSystemInstruction is the fixed persona for the chat companion:
// empathetic, non-judgmental, non-diagnostic, confidentiality-respecting.
// The wording is part of the product and is not configurable.
const CompanionSystemInstruction = `Kamu adalah pendamping empatik di platform SafeSpace, sebuah ruang aman bagi penyintas kekerasan seksual.
Tugas utamamu adalah mendengarkan, memvalidasi perasaan pengguna, dan memberikan dukungan emosional awal.
Gunakan bahasa Indonesia yang sopan, lembut, dan menenangkan.
Jangan pernah menghakimi, menyalahkan, atau memaksa pengguna bercerita jika mereka belum siap.
Fokus pada perasaan mereka saat ini. Jika ada indikasi bahaya darurat, sarankan mereka menghubungi profesional dengan lembut.`

// ReportSystemInstruction enforces the four-section complaint-form layout
// and first-person narrative voice for report drafting.
const ReportSystemInstruction = `Anda adalah ahli dalam membantu penyintas kekerasan seksual mendokumentasikan pengalaman mereka dengan formal dan profesional.

Tugasmu adalah mengubah data terstruktur menjadi narasi penuh untuk FORMULIR PENGADUAN KEKERASAN SEKSUAL yang siap diajukan ke otoritas resmi.

STRUKTUR OUTPUT YANG WAJIB:

## FORMULIR PENGADUAN KEKERASAN SEKSUAL

### I. IDENTIFIKASI KEBUTUHAN
(Jelaskan mengapa korban membuat laporan ini - apa tujuan atau kebutuhan mereka saat ini)

### II. IDENTIFIKASI PELAKU
(Jelaskan siapa pelaku dan posisi/hubungan mereka dengan korban)

### III. KRONOLOGI KEJADIAN
(Ceritakan kejadian secara urut dan detail dari perspektif korban menggunakan sudut pandang "Saya")

### IV. BUKTI TERLAMPIR
(Sebutkan jenis bukti/dokumentasi yang tersedia)

CATATAN PENTING:
- Gunakan perspektif orang pertama ("Saya") dalam narasi kronologi
- Tulis dalam bahasa Indonesia formal yang profesional
- Jangan menambahkan asumsi di luar data yang diberikan
- Pastikan setiap bagian diisi sesuai struktur di atas
- Tujuan: membuat dokumen yang bisa langsung diajukan ke pihak berwajib`

// ChatRequest builds the companion-gateway request: the persona instruction,
// the full prior history in order, and the new user message appended last.
// The history is never truncated or summarized.
func ChatRequest(history []domain.Message, userMessage string) Request {
	turns := make([]Turn, 0, len(history)+1)
	for _, m := range history {
		if !domain.ValidRole(m.Role) {
			continue
		}
		turns = append(turns, Turn{Role: m.Role, Content: m.Content})
	}
	turns = append(turns, Turn{Role: domain.RoleUser, Content: userMessage})
	return Request{
		System: CompanionSystemInstruction,
		Turns:  turns,
	}
}

// ReportRequest builds the drafting-gateway request from the submitted
// structured fields, rendered as natural-language context. Generation is
// pinned to a low temperature and bounded output for structurally
// consistent documents.
func ReportRequest(r *domain.Report, model string) Request {
	prompt := fmt.Sprintf(`Berdasarkan informasi berikut, buatkan FORMULIR PENGADUAN KEKERASAN SEKSUAL yang lengkap dan formal:

Lokasi Kejadian: %s
Identitas Pelaku: %s
Jenis Kekerasan: %s
Bukti Tersedia: %s
Tujuan Pelapor: %s

Buatkan formulir lengkap dengan struktur:
1. IDENTIFIKASI KEBUTUHAN
2. IDENTIFIKASI PELAKU
3. KRONOLOGI KEJADIAN (menggunakan sudut pandang "Saya")
4. BUKTI TERLAMPIR

Pastikan narasi tertulis dalam bahasa Indonesia formal dan siap untuk diajukan ke otoritas.`,
		r.Location, r.Perpetrator, r.IncidentDescription, r.Evidence, r.UserGoal)

	return Request{
		System:          ReportSystemInstruction,
		Turns:           []Turn{{Role: domain.RoleUser, Content: prompt}},
		Temperature:     TempPtr(0.3),
		MaxOutputTokens: 2048,
		Model:           model,
	}
}
